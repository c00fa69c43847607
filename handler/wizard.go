package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/aaraaapps/aaraa.app/model"
	"github.com/aaraaapps/aaraa.app/pkg/logger"
	"github.com/aaraaapps/aaraa.app/service"
	"github.com/aaraaapps/aaraa.app/wizard"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// WizardStore is everything the project wizard reads or writes
type WizardStore interface {
	service.CatalogRepository
	service.ProjectRepository
	service.EmployeeDirectory
}

type WizardHandler struct {
	drafts *service.WizardRegistry
	store  WizardStore
}

func NewWizardHandler(drafts *service.WizardRegistry, store WizardStore) *WizardHandler {
	return &WizardHandler{drafts: drafts, store: store}
}

type AddItemRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}

type NewItemRequest struct {
	ItemName string `json:"item_name" binding:"required"`
	Unit     string `json:"unit" binding:"required"`
}

type NewUnitRequest struct {
	UnitName string `json:"unit_name" binding:"required"`
}

func draftResponse(id string, state wizard.State) gin.H {
	return gin.H{"id": id, "state": state.Snapshot()}
}

// update runs fn against the caller's draft and writes the outcome
func (h *WizardHandler) update(c *gin.Context, fn func(context.Context, wizard.State) (wizard.State, error)) {
	s, ok := session(c)
	if !ok {
		return
	}
	id := c.Param("id")
	state, err := h.drafts.Update(c.Request.Context(), s.Employee.ID, id, fn)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draftResponse(id, state))
}

func (h *WizardHandler) Start(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	id, state := h.drafts.Start(s.Employee.ID)
	logger.Debug(c.Request.Context(), "wizard draft started", "draft_id", id)
	c.JSON(http.StatusCreated, draftResponse(id, state))
}

func (h *WizardHandler) Get(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	id := c.Param("id")
	state, err := h.drafts.Get(s.Employee.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draftResponse(id, state))
}

func (h *WizardHandler) Discard(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	if err := h.drafts.Discard(s.Employee.ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// fieldValue converts a JSON value into the raw form string or checkbox
func fieldValue(v any) (text string, flag bool, isFlag bool, err error) {
	switch x := v.(type) {
	case string:
		return x, false, false, nil
	case bool:
		return "", x, true, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), false, false, nil
	case nil:
		return "", false, false, nil
	}
	return "", false, false, fmt.Errorf("unsupported value %v", v)
}

// EditFields merges a partial form. Either every field applies or none do.
func (h *WizardHandler) EditFields(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	h.update(c, func(_ context.Context, s wizard.State) (wizard.State, error) {
		next := s
		for _, name := range names {
			text, flag, isFlag, err := fieldValue(fields[name])
			if err != nil {
				return s, &wizard.ValidationError{Field: name, Message: err.Error()}
			}
			if isFlag {
				next, err = next.SetFlag(name, flag)
			} else {
				next, err = next.Edit(name, text)
			}
			if err != nil {
				return s, err
			}
		}
		return next, nil
	})
}

func (h *WizardHandler) Continue(c *gin.Context) {
	h.update(c, func(_ context.Context, s wizard.State) (wizard.State, error) {
		return s.Continue(), nil
	})
}

func (h *WizardHandler) Back(c *gin.Context) {
	h.update(c, func(_ context.Context, s wizard.State) (wizard.State, error) {
		return s.Back(), nil
	})
}

// AddItem adds a master BOQ item to the scope by id
func (h *WizardHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	h.update(c, func(ctx context.Context, s wizard.State) (wizard.State, error) {
		items, err := h.store.ListBOQItems(ctx)
		if err != nil {
			return s, fmt.Errorf("load boq master: %w", err)
		}
		for _, item := range items {
			if item.ID == req.ItemID {
				return s.AddItem(item)
			}
		}
		return s, fmt.Errorf("boq item %s: %w", req.ItemID, service.ErrNotFound)
	})
}

// CreateItem stores a new master item and adds it to the scope
func (h *WizardHandler) CreateItem(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	var req NewItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item name and unit are required"})
		return
	}

	id := c.Param("id")
	var created model.BOQItem
	state, err := h.drafts.Update(c.Request.Context(), s.Employee.ID, id, func(ctx context.Context, st wizard.State) (wizard.State, error) {
		next, item, err := st.CreateAndAdd(ctx, h.store, req.ItemName, req.Unit)
		created = item
		return next, err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	resp := draftResponse(id, state)
	resp["item"] = created
	c.JSON(http.StatusCreated, resp)
}

func (h *WizardHandler) RemoveItem(c *gin.Context) {
	itemID := c.Param("itemId")
	h.update(c, func(_ context.Context, s wizard.State) (wizard.State, error) {
		return s.RemoveItem(itemID)
	})
}

// Submit persists the draft as a project. A failed submit leaves the draft
// on the review step with its fields intact.
func (h *WizardHandler) Submit(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	id := c.Param("id")
	var project *model.Project
	state, err := h.drafts.Update(c.Request.Context(), s.Employee.ID, id, func(ctx context.Context, st wizard.State) (wizard.State, error) {
		next, p, err := st.Submit(ctx, h.store, s.Employee.ID)
		project = p
		return next, err
	})
	if err != nil {
		var verr *wizard.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": verr.Message,
				"field": verr.Field,
				"state": state.Snapshot(),
			})
			return
		}
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			logger.Error(c.Request.Context(), "project submission failed", "draft_id", id, "error", err)
		}
		body := gin.H{"error": "Submission Error: " + err.Error()}
		if !errors.Is(err, service.ErrNotFound) && !errors.Is(err, service.ErrForbidden) {
			body["state"] = state.Snapshot()
		}
		c.JSON(status, body)
		return
	}

	logger.Info(c.Request.Context(), "project created",
		"project_code", project.ProjectCode,
		"boq_items", len(project.BOQ),
	)
	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"project_code": state.Code(),
		"project":      project,
		"state":        state.Snapshot(),
	})
}

// Masters loads the BOQ master, units and employees concurrently. A list
// that fails to load is returned empty.
func (h *WizardHandler) Masters(c *gin.Context) {
	var (
		items     = []model.BOQItem{}
		units     = []model.BOQUnit{}
		employees = []model.Employee{}
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		loaded, err := h.store.ListBOQItems(ctx)
		if err != nil {
			logger.Warn(ctx, "boq master unavailable", "error", err)
			return nil
		}
		items = loaded
		return nil
	})
	g.Go(func() error {
		loaded, err := h.store.ListUnits(ctx)
		if err != nil {
			logger.Warn(ctx, "unit master unavailable", "error", err)
			return nil
		}
		units = loaded
		return nil
	})
	g.Go(func() error {
		loaded, err := h.store.ListEmployees(ctx)
		if err != nil {
			logger.Warn(ctx, "employee master unavailable", "error", err)
			return nil
		}
		employees = loaded
		return nil
	})
	_ = g.Wait()

	c.JSON(http.StatusOK, gin.H{
		"boq_items": items,
		"units":     units,
		"employees": employees,
	})
}

func (h *WizardHandler) CreateUnit(c *gin.Context) {
	var req NewUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.UnitName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unit name is required"})
		return
	}
	unit, err := h.store.CreateUnit(c.Request.Context(), req.UnitName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "unit": unit})
}
