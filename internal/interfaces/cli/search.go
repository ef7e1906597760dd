package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/mini-spade/pkg/client"
)

const abstractPreview = 80

// searchOutput is the printable form of a search page.
type searchOutput struct {
	*client.SearchResponse
}

func (o searchOutput) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d result(s), page %d of %d\n", o.TotalResults, o.CurrentPage, o.TotalPages)
	for _, p := range o.Results {
		fmt.Fprintf(&sb, "\n%s  %s  (%s, relevance %.2f)\n", p.ID, p.Title, p.PublicationDate, p.RelevanceScore)
		if len(p.Inventors) > 0 {
			fmt.Fprintf(&sb, "  inventors: %s\n", strings.Join(p.Inventors, ", "))
		}
		fmt.Fprintf(&sb, "  %s\n", truncate(p.Abstract, abstractPreview))
	}
	return sb.String()
}

func (o searchOutput) TableHeaders() []string {
	return []string{"ID", "PUBLISHED", "RELEVANCE", "TITLE"}
}

func (o searchOutput) TableRows() [][]string {
	rows := make([][]string, 0, len(o.Results))
	for _, p := range o.Results {
		rows = append(rows, []string{p.ID, p.PublicationDate, strconv.FormatFloat(p.RelevanceScore, 'f', 2, 64), p.Title})
	}
	return rows
}

// similarOutput is the printable form of a similarity result.
type similarOutput struct {
	source string
	*client.SimilarResponse
}

func (o similarOutput) String() string {
	if len(o.Results) == 0 {
		return fmt.Sprintf("No patents similar to %s.\n", o.source)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Patents similar to %s:\n", o.source)
	for i, p := range o.Results {
		fmt.Fprintf(&sb, "%d. %s  %s  (score %d)\n", i+1, p.ID, p.Title, p.Similarity)
	}
	return sb.String()
}

func (o similarOutput) TableHeaders() []string { return []string{"RANK", "ID", "SCORE", "TITLE"} }

func (o similarOutput) TableRows() [][]string {
	rows := make([][]string, 0, len(o.Results))
	for i, p := range o.Results {
		rows = append(rows, []string{strconv.Itoa(i + 1), p.ID, strconv.Itoa(p.Similarity), p.Title})
	}
	return rows
}

// patentOutput is the printable form of a single patent.
type patentOutput struct {
	*client.Patent
}

func (o patentOutput) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s\n", o.ID, o.Title)
	fmt.Fprintf(&sb, "published: %s\n", o.PublicationDate)
	fmt.Fprintf(&sb, "relevance: %.2f\n", o.RelevanceScore)
	fmt.Fprintf(&sb, "inventors: %s\n", strings.Join(o.Inventors, ", "))
	if o.Assignee != nil {
		fmt.Fprintf(&sb, "assignee:  %s\n", *o.Assignee)
	}
	if o.Status != nil {
		fmt.Fprintf(&sb, "status:    %s\n", *o.Status)
	}
	if len(o.CPCCodes) > 0 {
		fmt.Fprintf(&sb, "cpc:       %s\n", strings.Join(o.CPCCodes, ", "))
	}
	fmt.Fprintf(&sb, "\n%s\n", o.Abstract)
	return sb.String()
}

func newSearchCmd() *cobra.Command {
	var (
		params         client.SearchParams
		page, pageSize int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search patents on the API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()

			if cmd.Flags().Changed("page") {
				params.Page = client.Int(page)
			}
			if cmd.Flags().Changed("page-size") {
				params.PageSize = client.Int(pageSize)
			}
			res, err := cliCtx.API.Search(ctx, params)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, res)
			}
			return PrintResult(cmd, searchOutput{res})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&params.Query, "query", "q", "", "substring of title or abstract")
	f.StringVar(&params.StartDate, "start", "", "earliest publication date (YYYY-MM-DD)")
	f.StringVar(&params.EndDate, "end", "", "latest publication date (YYYY-MM-DD)")
	f.StringVar(&params.Inventors, "inventors", "", "substring of an inventor name")
	f.IntVar(&page, "page", 1, "page number")
	f.IntVar(&pageSize, "page-size", 10, "results per page (server default applies when unset)")
	return cmd
}

func newSimilarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "similar <id>",
		Short: "List the patents most similar to a patent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()

			res, err := cliCtx.API.Similar(ctx, args[0])
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, res)
			}
			return PrintResult(cmd, similarOutput{source: args[0], SimilarResponse: res})
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one patent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()

			p, err := cliCtx.API.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, p)
			}
			return PrintResult(cmd, patentOutput{p})
		},
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

//Personal.AI order the ending
