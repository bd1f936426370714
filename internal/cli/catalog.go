// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jeranaias/campus-assistant/internal/assistant"
	"github.com/jeranaias/campus-assistant/internal/dispatch"
	"github.com/jeranaias/campus-assistant/internal/model"
	"github.com/jeranaias/campus-assistant/internal/util"
)

// =============================================================================
// QUICK ACTIONS
// =============================================================================

func (a *app) newActionsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List the quick action catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				return NewJSONResponse("actions", assistant.QuickActions()).Write(cmd.OutOrStdout())
			}
			printActions(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}

func printActions(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "ID", "Title", "Description"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for i, action := range assistant.QuickActions() {
		table.Append([]string{strconv.Itoa(i + 1), action.ID, action.Title, action.Description})
	}
	table.Render()
}

// =============================================================================
// STATS
// =============================================================================

// StatsResult is the JSON payload of `campus stats`. Topics is nil when no
// inquiry log exists.
type StatsResult struct {
	Campus []model.Stat          `json:"campus"`
	Topics []dispatch.TopicCount `json:"topics,omitempty"`
}

func (a *app) newStatsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show campus figures and inquiry counts per topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result := StatsResult{Campus: assistant.Stats()}

			if path := a.inquiryPath(); fileExists(path) {
				db, err := dispatch.OpenSQLite(path)
				if err != nil {
					return err
				}
				defer db.Close()
				if result.Topics, err = db.CountByTopic(cmd.Context()); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return NewJSONResponse("stats", result).Write(out)
			}

			fmt.Fprintln(out, TitleStyle.Render(assistant.StatsTitle))
			table := tablewriter.NewWriter(out)
			table.SetBorder(false)
			for _, stat := range result.Campus {
				table.Append([]string{stat.Label, stat.Value})
			}
			table.Render()

			if result.Topics != nil {
				fmt.Fprintln(out)
				fmt.Fprintln(out, TitleStyle.Render("Inquiries by topic"))
				printTopicCounts(out, result.Topics)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// =============================================================================
// INQUIRY LOG
// =============================================================================

func (a *app) newInquiriesCmd() *cobra.Command {
	var (
		limit  int
		topics bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "inquiries",
		Short: "Show recent entries from the inquiry log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.inquiryPath()
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("no inquiry log at %s (enable [inquiries] in the config)", path)
			}

			db, err := dispatch.OpenSQLite(path)
			if err != nil {
				return err
			}
			defer db.Close()

			out := cmd.OutOrStdout()
			if topics {
				counts, err := db.CountByTopic(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return NewJSONResponse("inquiries", counts).Write(out)
				}
				printTopicCounts(out, counts)
				return nil
			}

			recent, err := db.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return NewJSONResponse("inquiries", recent).Write(out)
			}
			printInquiries(out, recent)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().BoolVar(&topics, "topics", false, "count inquiries per topic instead")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}

func printInquiries(w io.Writer, inquiries []dispatch.Inquiry) {
	if len(inquiries) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No inquiries recorded yet."))
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Time", "Source", "Topic", "Text"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, inq := range inquiries {
		table.Append([]string{
			inq.At.Local().Format("2006-01-02 15:04:05"),
			string(inq.Source),
			inq.Topic,
			util.TruncateWidth(inq.Text, 60),
		})
	}
	table.Render()
}

func printTopicCounts(w io.Writer, counts []dispatch.TopicCount) {
	if len(counts) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No inquiries recorded yet."))
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Topic", "Count"})
	table.SetBorder(false)
	for _, c := range counts {
		table.Append([]string{c.Topic, strconv.Itoa(c.Count)})
	}
	table.Render()
}
