package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/mini-spade/internal/infrastructure/storage/minio"
	"github.com/turtacn/mini-spade/pkg/errors"
)

// datasetList is the printable form of `dataset list`.
type datasetList []minio.DatasetInfo

func (l datasetList) String() string {
	if len(l) == 0 {
		return "No datasets.\n"
	}
	var sb strings.Builder
	for _, d := range l {
		fmt.Fprintf(&sb, "%s\t%d\t%s\n", d.Key, d.Size, d.LastModified.UTC().Format(time.RFC3339))
	}
	return sb.String()
}

func (l datasetList) TableHeaders() []string { return []string{"KEY", "SIZE", "LAST MODIFIED"} }

func (l datasetList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, d := range l {
		rows = append(rows, []string{d.Key, strconv.FormatInt(d.Size, 10), d.LastModified.UTC().Format(time.RFC3339)})
	}
	return rows
}

func newDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Manage seed datasets in the object store",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "upload <file> <key>",
			Short: "Upload a local JSON dataset",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				cliCtx, err := GetCLIContext(cmd)
				if err != nil {
					return err
				}
				ctx, cancel := cliCtx.commandContext(cmd)
				defer cancel()

				f, err := stdinOrFile(args[0])
				if err != nil {
					return errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "failed to open dataset file").
						WithDetail("file=" + args[0])
				}
				defer f.Close()
				size := int64(-1)
				if st, err := f.Stat(); err == nil && st.Mode().IsRegular() {
					size = st.Size()
				}

				store, err := cliCtx.Factories.Datasets(ctx, cliCtx.Config, cliCtx.Logger)
				if err != nil {
					return err
				}
				info, err := store.Upload(ctx, args[1], f, size)
				if err != nil {
					return err
				}
				PrintSuccess(cmd, fmt.Sprintf("uploaded %s (%d bytes)", info.Key, info.Size))
				return nil
			},
		},
		&cobra.Command{
			Use:   "list [prefix]",
			Short: "List uploaded datasets",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cliCtx, err := GetCLIContext(cmd)
				if err != nil {
					return err
				}
				ctx, cancel := cliCtx.commandContext(cmd)
				defer cancel()

				prefix := ""
				if len(args) == 1 {
					prefix = args[0]
				}
				store, err := cliCtx.Factories.Datasets(ctx, cliCtx.Config, cliCtx.Logger)
				if err != nil {
					return err
				}
				items, err := store.List(ctx, prefix)
				if err != nil {
					return err
				}
				return PrintResult(cmd, datasetList(items))
			},
		},
	)
	return cmd
}

//Personal.AI order the ending
