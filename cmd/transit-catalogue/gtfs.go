package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/theoremus-urban-solutions/transit-catalogue/catalogue"
	"github.com/theoremus-urban-solutions/transit-catalogue/gtfs"
	"github.com/theoremus-urban-solutions/transit-catalogue/gtfsrt"
	"github.com/theoremus-urban-solutions/transit-catalogue/snapshot"
)

type importOptions struct {
	zip      string
	out      string
	wait     uint32
	velocity uint32
	realtime []string
	at       string
}

func (a *app) importGTFSCmd() *cobra.Command {
	var opts importOptions
	cmd := &cobra.Command{
		Use:   "import_gtfs",
		Short: "Build a snapshot from a GTFS static feed",
		Long: `import_gtfs reads a GTFS zip (file path or http(s) URL), keeps one stop
sequence per route and direction and writes the catalogue as a snapshot.
GTFS-Realtime feeds given with --realtime remove cancelled trips, skipped
stops and NO_SERVICE alerts before the sequences are chosen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("wait") {
				opts.wait = a.cfg.GTFS.WaitTime
			}
			if !cmd.Flags().Changed("velocity") {
				opts.velocity = a.cfg.GTFS.Velocity
			}
			return a.importGTFS(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.zip, "zip", "", "GTFS zip file path or URL")
	f.StringVar(&opts.out, "out", "", "snapshot name to write")
	f.Uint32Var(&opts.wait, "wait", 0, "bus wait time in minutes (default from config)")
	f.Uint32Var(&opts.velocity, "velocity", 0, "bus velocity in km/h, 0 disables routing (default from config)")
	f.StringArrayVar(&opts.realtime, "realtime", nil, "GTFS-Realtime feed path or URL, repeatable")
	f.StringVar(&opts.at, "at", "", "RFC3339 time used to select active alerts (default: all alerts)")
	_ = cmd.MarkFlagRequired("zip")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) importGTFS(cmd *cobra.Command, opts importOptions) error {
	ctx := cmd.Context()
	client := gtfsrt.NewClient(a.cfg.GTFS.FetchTimeout)

	var at time.Time
	if opts.at != "" {
		var err error
		if at, err = time.Parse(time.RFC3339, opts.at); err != nil {
			return fmt.Errorf("--at: %w", err)
		}
	}

	var disruptions *gtfsrt.Disruptions
	if len(opts.realtime) > 0 {
		feeds, err := client.FetchAll(ctx, opts.realtime...)
		if err != nil {
			return fmt.Errorf("realtime: %w", err)
		}
		disruptions = gtfsrt.NewDisruptions(at)
		for i, data := range feeds {
			if err := disruptions.Add(data); err != nil {
				return fmt.Errorf("realtime %s: %w", opts.realtime[i], err)
			}
		}
		trips, skipped, stops, routes := disruptions.Count()
		slog.Info("realtime disruptions loaded",
			"feeds", len(feeds),
			"cancelled_trips", trips,
			"skipped_calls", skipped,
			"closed_stops", stops,
			"closed_routes", routes,
			"feed_timestamp", disruptions.GetTimestampForFeedMessage())
	}

	var feed *gtfs.Feed
	var err error
	if gtfsrt.IsURL(opts.zip) {
		data, ferr := client.Fetch(ctx, opts.zip)
		if ferr != nil {
			return ferr
		}
		feed, err = gtfs.ReadFeedFromBytes(data)
	} else {
		feed, err = gtfs.ReadFeedFromFile(opts.zip)
	}
	if err != nil {
		return err
	}

	l := catalogue.NewLoader()
	_, err = gtfs.Import(feed, l, gtfs.Options{
		WaitTime:    opts.wait,
		Velocity:    opts.velocity,
		Disruptions: disruptions,
	})
	if err != nil {
		return err
	}
	cat, err := l.Build()
	if err != nil {
		return err
	}
	return a.saveSnapshot(opts.out, snapshot.New(cat, nil))
}
