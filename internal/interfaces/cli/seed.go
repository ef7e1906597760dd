package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	patentapp "github.com/turtacn/mini-spade/internal/application/patent"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/mini-spade/pkg/errors"
)

// seedReport is the printable form of an import result.
type seedReport struct {
	*patentapp.ImportResult
}

func (r seedReport) String() string {
	s := fmt.Sprintf("Loaded %d patents from %s in %s\n", r.Created, r.Source, r.Duration)
	if r.CachePurgeErr != "" {
		s += "Warning: similarity cache was not purged: " + r.CachePurgeErr + "\n"
	} else if r.CachePurged > 0 {
		s += fmt.Sprintf("Purged %d cached similarity results\n", r.CachePurged)
	}
	return s
}

func (r seedReport) TableHeaders() []string {
	return []string{"SOURCE", "RECEIVED", "CREATED", "CACHE PURGED", "DURATION"}
}

func (r seedReport) TableRows() [][]string {
	return [][]string{{
		r.Source,
		strconv.Itoa(r.Received),
		strconv.Itoa(r.Created),
		strconv.FormatInt(r.CachePurged, 10),
		r.Duration.String(),
	}}
}

func newSeedCmd() *cobra.Command {
	var file, object string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the stored corpus with a JSON dataset",
		Long: "seed reads a JSON array of patents from a local file (--file, \"-\" for stdin)\n" +
			"or from the dataset bucket (--object) and replaces every stored patent in\n" +
			"one transaction.  Without flags, seed.file or seed.object from the config is used.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if file == "" && object == "" {
				file, object = cliCtx.Config.Seed.File, cliCtx.Config.Seed.Object
			}
			switch {
			case file != "" && object != "":
				return errors.InvalidParam("--file and --object are mutually exclusive")
			case file == "" && object == "":
				return errors.InvalidParam("one of --file or --object is required")
			}

			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()

			var (
				r      io.ReadCloser
				source string
			)
			if file != "" {
				f, err := stdinOrFile(file)
				if err != nil {
					return errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "failed to open dataset file").
						WithDetail("file=" + file)
				}
				r, source = f, "file:"+file
			} else {
				store, err := cliCtx.Factories.Datasets(ctx, cliCtx.Config, cliCtx.Logger)
				if err != nil {
					return err
				}
				obj, info, err := store.Open(ctx, object)
				if err != nil {
					return err
				}
				cliCtx.Logger.Info("Reading dataset object",
					logging.String("key", info.Key), logging.Int64("size", info.Size))
				r, source = obj, "object:"+object
			}
			defer r.Close()

			seeder, cleanup, err := cliCtx.Factories.Seeder(ctx, cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := seeder.Import(ctx, source, r)
			if err != nil {
				return err
			}
			return PrintResult(cmd, seedReport{result})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "dataset file path, - for stdin")
	cmd.Flags().StringVar(&object, "object", "", "dataset object key in the bucket")
	return cmd
}

//Personal.AI order the ending
