package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/finweave/finweave/internal/cli"
	"github.com/finweave/finweave/internal/llm"
)

// fileClient satisfies llm.Client with a pre-captured completion. The
// proposer validates its output the same way it would a live backend's, so
// offline runs and live runs share one code path.
type fileClient struct {
	path string
}

func (c fileClient) Complete(_ context.Context, _ string) (string, error) {
	var data []byte
	var err error
	if c.path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(c.path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read proposal response: %w", err)
	}
	return string(data), nil
}

func modelProposeCmd() *cobra.Command {
	var business string
	var responseFile string

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Generate and store a business-model proposal",
		Long: `Builds a proposal request from the business description and the columns of
every registered dataset, runs the response through validation, and stores the
accepted proposal. The response is read from --response (use "-" for stdin);
malformed responses degrade to an empty model rather than failing the run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			datasets, err := store.GetDatasets(cmd.Context(), workspace())
			if err != nil {
				return err
			}

			req := llm.ProposalRequest{BusinessDescription: business}
			for _, ds := range datasets {
				req.SampleSheets = append(req.SampleSheets, llm.SampleSheet{
					Name:    ds.SheetName,
					Columns: ds.Columns,
				})
			}

			proposer := llm.NewProposer(fileClient{path: responseFile})
			proposal, err := proposer.ProposeModel(cmd.Context(), req)
			if err != nil {
				return err
			}

			if err := store.SaveProposal(cmd.Context(), workspace(), proposal); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"stored proposal with %d tables and %d relationships",
				len(proposal.RecommendedTables), len(proposal.Relationships))))
			return nil
		},
	}

	cmd.Flags().StringVar(&business, "business", "", "short description of the business")
	cmd.Flags().StringVar(&responseFile, "response", "-", "file holding the proposal response JSON")
	return cmd
}
