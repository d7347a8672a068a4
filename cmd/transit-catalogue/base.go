package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/theoremus-urban-solutions/transit-catalogue/catalogue"
	"github.com/theoremus-urban-solutions/transit-catalogue/formatter"
	"github.com/theoremus-urban-solutions/transit-catalogue/requests"
	"github.com/theoremus-urban-solutions/transit-catalogue/router"
	"github.com/theoremus-urban-solutions/transit-catalogue/snapshot"
)

var errNoSnapshotName = errors.New("serialization_settings.file is required")

func (a *app) makeBaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "make_base",
		Short: "Load the request document on stdin and write its snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := requests.Decode(cmd.InOrStdin())
			if err != nil {
				return err
			}
			name, err := snapshotName(doc)
			if err != nil {
				return err
			}
			cat, err := requests.Load(doc)
			if err != nil {
				return err
			}
			return a.saveSnapshot(name, snapshot.New(cat, doc.RenderSettings))
		},
	}
}

func (a *app) processRequestsCmd() *cobra.Command {
	var indent string
	cmd := &cobra.Command{
		Use:   "process_requests",
		Short: "Answer the stat requests on stdin against a stored snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := requests.Decode(cmd.InOrStdin())
			if err != nil {
				return err
			}
			name, err := snapshotName(doc)
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			snap, err := snapshot.Load(store, name)
			if cerr := store.Close(); err == nil && cerr != nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			cat := snap.Catalogue
			a.recordCatalogue(cat)
			a.metrics.SetSnapshotSize(snap.Size)
			rt, err := a.newRouter(cat)
			if err != nil {
				return err
			}

			responses := requests.NewHandler(cat, rt, a.metrics).Process(cmd.Context(), doc.StatRequests)
			if err := formatter.NewResponseBuilder(indent).WriteJSON(cmd.OutOrStdout(), responses); err != nil {
				return err
			}
			return a.writeMetrics()
		},
	}
	cmd.Flags().StringVar(&indent, "indent", "  ", "indent per nesting level of the JSON output, empty for compact")
	return cmd
}

func snapshotName(doc *requests.Document) (string, error) {
	if doc.SerializationSettings == nil {
		return "", fmt.Errorf("%w: %w", requests.ErrInvalidDocument, errNoSnapshotName)
	}
	return doc.SerializationSettings.File, nil
}

// openStore opens the snapshot backend selected in the config. The caller
// closes it.
func (a *app) openStore() (snapshot.Store, error) {
	c := a.cfg.Snapshot
	switch c.Backend {
	case "badger":
		return snapshot.OpenBadgerStore(snapshot.BadgerOptions{
			Dir:        c.BadgerDir,
			SyncWrites: c.SyncWrites,
			Logger:     slog.Default().With("component", "badger"),
		})
	default:
		return snapshot.NewFileStore(c.Dir), nil
	}
}

func (a *app) saveSnapshot(name string, s snapshot.Snapshot) (err error) {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); err == nil {
			err = cerr
		}
	}()

	size, err := snapshot.Save(store, name, s)
	if err != nil {
		return err
	}
	a.recordCatalogue(s.Catalogue)
	a.metrics.SetSnapshotSize(size)
	return a.writeMetrics()
}

// newRouter builds the router, or returns nil when the catalogue has no
// routing settings
func (a *app) newRouter(cat *catalogue.Catalogue) (*router.Router, error) {
	if _, ok := cat.RoutingSettings(); !ok {
		slog.Warn("catalogue has no routing settings, route requests will fail")
		return nil, nil
	}
	rt, err := router.New(cat)
	if err != nil {
		return nil, err
	}
	a.metrics.SetGraphEdges(rt.Graph().EdgeCount())
	return rt, nil
}

func (a *app) recordCatalogue(cat *catalogue.Catalogue) {
	a.metrics.SetCatalogueSize(cat.StopCount(), cat.RouteCount(), cat.DistanceCount())
}

func (a *app) writeMetrics() error {
	if a.cfg.Metrics.Textfile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
