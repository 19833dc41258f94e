package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/finweave/finweave/internal/cli"
	"github.com/finweave/finweave/internal/common"
	"github.com/finweave/finweave/internal/model"
	"github.com/finweave/finweave/internal/schema"
)

func modelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Inspect and edit the business-data model",
	}

	cmd.AddCommand(modelProposeCmd())
	cmd.AddCommand(modelShowCmd())
	cmd.AddCommand(modelGraphCmd())
	cmd.AddCommand(modelLinkCmd())
	cmd.AddCommand(modelAutolinkCmd())
	cmd.AddCommand(modelEditCmd())

	return cmd
}

func modelShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current model proposal as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			proposal, err := store.GetProposal(cmd.Context(), workspace())
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					fmt.Println(cli.FormatWarning("no model proposal saved yet"))
					return nil
				}
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(proposal)
		},
	}
}

func modelGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the model as a node/edge graph (JSON)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			proposal, err := store.GetProposal(cmd.Context(), workspace())
			if err != nil && !errors.Is(err, common.ErrNotFound) {
				return err
			}

			hints, _ := cmd.Flags().GetBool("fk-hints")
			graph := schema.BuildGraph(proposal, &schema.GraphOptions{FKFieldHints: hints})

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(graph)
		},
	}
	cmd.Flags().Bool("fk-hints", true, "Synthesize foreign-key field hints on the graph")
	return cmd
}

func modelLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <sheet-name> [columns...]",
		Short: "Reconcile one parsed sheet with the model",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			proposal, err := store.GetProposal(cmd.Context(), workspace())
			if err != nil {
				if !errors.Is(err, common.ErrNotFound) {
					return err
				}
				proposal = &model.Proposal{RecommendedTables: []model.TableDef{}}
			}

			result := schema.LinkSheet(proposal, schema.SheetInfo{
				Name:    args[0],
				Columns: args[1:],
			})

			if err := store.SaveProposal(cmd.Context(), workspace(), result.UpdatedModel); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"linked %q to table %q with %d relationship suggestions",
				args[0], result.TargetTable, len(result.SuggestedRelationships))))
			for _, rel := range result.SuggestedRelationships {
				fmt.Printf("  %s → %s\n", rel.From, rel.To)
			}
			return nil
		},
	}
}

func modelAutolinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "autolink",
		Short: "Associate uploaded datasets with model tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			proposal, err := store.GetProposal(cmd.Context(), workspace())
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					fmt.Println(cli.FormatWarning("no model proposal to link against"))
					return nil
				}
				return err
			}

			datasets, err := store.GetDatasets(cmd.Context(), workspace())
			if err != nil {
				return err
			}

			linked := schema.AutoLink(proposal, datasets)
			if err := store.SaveProposal(cmd.Context(), workspace(), linked); err != nil {
				return err
			}

			for _, table := range linked.RecommendedTables {
				if table.IsLinked {
					fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s ← dataset %s", table.Name, table.LinkedDatasetID)))
				} else {
					fmt.Println(cli.FormatWarning(fmt.Sprintf("%s unlinked", table.Name)))
				}
			}
			return nil
		},
	}
}

func modelEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Apply a single model edit",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "rename-field <table> <old> <new>",
		Short: "Rename a field, rewriting relationship endpoints",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyEdit(cmd, func(p *model.Proposal) *model.Proposal {
				return schema.RenameField(p, args[0], args[1], args[2])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add-field <table> <name> [type]",
		Short: "Add a field to a table",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fieldType := "string"
			if len(args) == 3 {
				fieldType = args[2]
			}
			return applyEdit(cmd, func(p *model.Proposal) *model.Proposal {
				return schema.AddField(p, args[0], model.FieldDef{Name: args[1], Type: fieldType})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove-field <table> <name>",
		Short: "Remove a field and any relationships referencing it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyEdit(cmd, func(p *model.Proposal) *model.Proposal {
				return schema.RemoveField(p, args[0], args[1])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add-rel <from> <to>",
		Short: "Add a relationship (Table.field endpoints)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyEdit(cmd, func(p *model.Proposal) *model.Proposal {
				return schema.AddRelationship(p, model.RelationshipDef{From: args[0], To: args[1]})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove-rel <from> <to>",
		Short: "Remove relationships matching the endpoints",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyEdit(cmd, func(p *model.Proposal) *model.Proposal {
				return schema.RemoveRelationships(p, schema.RelationshipMatcher{From: args[0], To: args[1]})
			})
		},
	})

	return cmd
}

// applyEdit loads the proposal, applies one copy-on-write edit, and stores
// the replacement. Edits are whole-object replace; the caller serializes
// concurrent edit sequences per workspace.
func applyEdit(cmd *cobra.Command, edit func(*model.Proposal) *model.Proposal) error {
	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	if err := store.Migrate(cmd.Context()); err != nil {
		return err
	}

	proposal, err := store.GetProposal(cmd.Context(), workspace())
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return err
		}
		proposal = &model.Proposal{RecommendedTables: []model.TableDef{}}
	}

	updated := edit(proposal)
	if err := store.SaveProposal(cmd.Context(), workspace(), updated); err != nil {
		return err
	}

	slog.Debug("Applied model edit", "workspace", viper.GetString("workspace"))
	fmt.Println(cli.FormatSuccess("model updated"))
	return nil
}
