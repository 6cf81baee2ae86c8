package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukaji3/circlepack-go/internal/ui"
	"github.com/ukaji3/circlepack-go/pkg/circlepack"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/models"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/share"
)

var (
	shareName string
	useToken  bool
	showTree  bool
)

func newShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share [organization.xlsx]",
		Short: "Store a dataset and print its share id",
		Long: `Stores the hierarchy and assignments in the remote store, falling back
to the local store when the remote one is unreachable. With --token a
self-contained URL token is printed instead and nothing is stored.`,
		Args: cobra.ExactArgs(1),
		RunE: runShare,
	}
	addInputFlags(cmd)
	cmd.Flags().StringVar(&shareName, "name", "", "Dataset label (default: file name)")
	cmd.Flags().BoolVar(&useToken, "token", false, "Print a URL token instead of storing")
	return cmd
}

func runShare(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	ds, err := loadDataset(cmd, args[0], opts)
	if err != nil {
		return err
	}
	if shareName != "" {
		ds.Name = shareName
	}
	shared := ds.Shared(time.Now().UTC())

	if useToken {
		token, err := share.TokenFor(shared)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "data=%s\n", url.QueryEscape(token))
		return nil
	}

	sharer, closeStores, err := newSharer()
	if err != nil {
		return err
	}
	defer closeStores()

	id, err := sharer.Share(cmd.Context(), shared)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func newOpenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open [id-or-token]",
		Short: "Load a shared dataset and report its problems",
		Args:  cobra.ExactArgs(1),
		RunE:  runOpen,
	}
	addOutputFlags(cmd)
	cmd.Flags().BoolVar(&useToken, "token", false, "Argument is a URL token rather than a share id")
	cmd.Flags().BoolVar(&showTree, "tree", false, "Print the hierarchy instead of the problem report")
	cmd.Flags().StringVar(&ruleSet, "rules", "", "Rule set: basic or extended (default from config)")
	return cmd
}

func runOpen(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}

	shared, err := openShared(cmd, args[0])
	var decodeErr *share.DecodeError
	switch {
	case errors.As(err, &decodeErr):
		return fmt.Errorf("corrupted or invalid link: %w", err)
	case errors.Is(err, share.ErrNotFound):
		return fmt.Errorf("shared dataset %s not found or expired", args[0])
	case err != nil:
		return err
	}

	ds, err := circlepack.FromShared(shared)
	if err != nil {
		return err
	}

	if showTree {
		return writeText(cmd, func(w io.Writer) error {
			return ui.RenderTree(w, ds.Hierarchy, ds.Occupancy, ds.Staffing)
		})
	}
	return writeReport(cmd, ds, opts.Rules())
}

func openShared(cmd *cobra.Command, arg string) (models.SharedDataset, error) {
	if useToken {
		token := arg
		if unescaped, err := url.PathUnescape(arg); err == nil {
			token = unescaped
		}
		return share.DatasetFromToken(token, time.Now().UTC())
	}

	sharer, closeStores, err := newSharer()
	if err != nil {
		return models.SharedDataset{}, err
	}
	defer closeStores()
	return sharer.Open(cmd.Context(), arg)
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Remove a shared dataset from every configured store",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	sharer, closeStores, err := newSharer()
	if err != nil {
		return err
	}
	defer closeStores()

	if err := sharer.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

// newSharer wires the configured stores. The returned func closes them.
func newSharer() (*share.Sharer, func(), error) {
	var remote share.Store
	if cfg.Share.RemoteURL != "" {
		remote = share.NewRemoteStore(cfg.Share.RemoteURL, &http.Client{Timeout: cfg.GetShareTimeout()})
	}

	local, err := share.NewSQLiteStore(cfg.Share.LocalDB)
	if err != nil {
		return nil, nil, fmt.Errorf("opening local store: %w", err)
	}

	sharer, err := share.NewSharer(remote, local, share.Options{
		Timeout: cfg.GetShareTimeout(),
		TTL:     cfg.GetShareTTL(),
		Logger:  logger,
	})
	if err != nil {
		local.Close()
		return nil, nil, err
	}
	return sharer, func() { _ = local.Close() }, nil
}
