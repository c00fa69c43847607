package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aaraaapps/aaraa.app/model"
	"github.com/aaraaapps/aaraa.app/pkg/uplink"
	"github.com/spf13/cobra"
)

type pushOptions struct {
	subType    string
	title      string
	amount     float64
	path       string
	department string
	approved   bool
}

func newPushCmd(global *globalOptions) *cobra.Command {
	opts := &pushOptions{}

	cmd := &cobra.Command{
		Use:   "push <file>...",
		Short: "Upload files and register them as submissions",
		Long: `Upload each file to the bucket and register it as a submission.

If the upload succeeds but registration fails, the stored URL is printed so
the object can be reconciled later.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPush(cmd, global, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.subType, "type", string(model.TypeSitePhoto), "submission type: BILL, SITE_PHOTO or PETTY_CASH")
	cmd.Flags().StringVar(&opts.title, "title", "", "submission title (defaults to the file name)")
	cmd.Flags().Float64Var(&opts.amount, "amount", 0, "amount for bills and petty cash")
	cmd.Flags().StringVar(&opts.path, "path", "", "destination key in the bucket (single file only)")
	cmd.Flags().StringVar(&opts.department, "department", "", "department override")
	cmd.Flags().BoolVar(&opts.approved, "approved", false, "register as already APPROVED (vault uploads)")
	return cmd
}

func runPush(cmd *cobra.Command, global *globalOptions, opts *pushOptions, files []string) error {
	subType := model.SubmissionType(strings.ToUpper(opts.subType))
	if !subType.Valid() {
		return fmt.Errorf("unknown submission type %q", opts.subType)
	}
	if opts.path != "" && len(files) > 1 {
		return fmt.Errorf("--path can only be used with a single file")
	}

	ctx := cmd.Context()
	client, err := global.client(ctx, true)
	if err != nil {
		return err
	}
	pipeline := uplink.NewPipeline(client, uplink.NewHTTPRecorder(client))
	out := cmd.OutOrStdout()

	var failed int
	for _, name := range files {
		req := uplink.Request{
			Filename:   filepath.Base(name),
			Path:       opts.path,
			Type:       subType,
			Title:      opts.title,
			Department: opts.department,
		}
		if cmd.Flags().Changed("amount") {
			amount := opts.amount
			req.Amount = &amount
		}
		if opts.approved {
			req.Status = model.StatusApproved
		}

		if err := pushFile(cmd, pipeline, name, req); err != nil {
			failed++
			fmt.Fprintf(out, "%s: %v\n", name, err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(files))
	}
	return nil
}

func pushFile(cmd *cobra.Command, pipeline *uplink.Pipeline, name string, req uplink.Request) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	req.Body = f

	out := cmd.OutOrStdout()
	res, err := pipeline.Run(cmd.Context(), req, func(percent int) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d%%\n", name, percent)
	})
	if err != nil {
		var orphan *uplink.OrphanError
		if errors.As(err, &orphan) {
			fmt.Fprintf(out, "%s: stored at %s but not registered\n", name, orphan.URL)
		}
		return err
	}
	fmt.Fprintf(out, "%s: %s (%s)\n", name, res.URL, res.Submission.ID)
	return nil
}
