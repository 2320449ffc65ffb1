// wpsio is a small utility around the library: it stores files as
// process outputs in the configured backend, serves the output
// directory, prints the HTTP GET form of Execute documents and
// renders mapfiles for stored vector outputs.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/naivary/wpsio"
	"github.com/naivary/wpsio/config"
	"github.com/naivary/wpsio/inout"
	"github.com/naivary/wpsio/logger"
	"github.com/naivary/wpsio/mapfile"
	"github.com/naivary/wpsio/storage"
	"github.com/naivary/wpsio/storage/bucket"
	"github.com/naivary/wpsio/storage/db"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:           "wpsio",
		Short:         "store and serve WPS process outputs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "optional .env file to load the configuration from")
	root.AddCommand(newStoreCmd(&envFile))
	root.AddCommand(newServeCmd(&envFile))
	root.AddCommand(newKVPCmd())
	root.AddCommand(newMapfileCmd())
	return root
}

func loadConfig(envFile string) (*config.Config, error) {
	if envFile == "" {
		return config.New()
	}
	return config.New(envFile)
}

func newStoreCmd(envFile *string) *cobra.Command {
	var backend string
	var mimeType string
	var requestID string
	cmd := &cobra.Command{
		Use:   "store <file>",
		Short: "store a file as a complex output and print its reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			log := logger.New(context.Background())

			out, err := outputFromFile(args[0], mimeType, requestID)
			if err != nil {
				return err
			}
			st, closeStorage, err := openStorage(backend, cfg)
			if err != nil {
				return err
			}
			defer closeStorage()

			out.Storage = st
			url, err := out.URL()
			if err != nil {
				return err
			}
			log.Infof("stored %s as output %s", args[0], out.Identifier)
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "file", "storage backend: file, bucket or db")
	cmd.Flags().StringVar(&mimeType, "mime-type", "", "mime type of the file, resolved from the extension when empty")
	cmd.Flags().StringVar(&requestID, "request", "", "request id the output belongs to, a fresh uuid when empty")
	return cmd
}

func outputFromFile(path, mimeType, requestID string) (*inout.ComplexOutput, error) {
	format, ok := wpsio.FormatByExtension(filepath.Ext(path))
	if mimeType != "" {
		if f, found := wpsio.FormatByMimeType(mimeType); found {
			format, ok = f, true
		} else {
			format, ok = wpsio.Format{MimeType: mimeType, Extension: filepath.Ext(path)}, true
		}
	}
	if !ok {
		format = wpsio.FormatText
	}
	identifier := filepath.Base(path)
	if ext := filepath.Ext(identifier); ext != "" {
		identifier = identifier[:len(identifier)-len(ext)]
	}
	out := inout.NewComplexOutput(identifier, format)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	out.SetRequestID(requestID)
	if err := out.SetFile(path); err != nil {
		return nil, err
	}
	return out, nil
}

func openStorage(backend string, cfg *config.Config) (inout.Storage, func() error, error) {
	noop := func() error { return nil }
	switch backend {
	case "file":
		fs, err := storage.NewFileStorage(cfg.Server.OutputPath, cfg.Server.OutputURL)
		return fs, noop, err
	case "bucket":
		opts := badger.DefaultOptions(cfg.Bucket.Dir)
		opts.Logger = nil
		b, err := bucket.New(cfg.Bucket.Dir, opts)
		if err != nil {
			return nil, nil, err
		}
		return bucket.NewStore(b, cfg.Bucket.BaseURL), b.Shutdown, nil
	case "db":
		st, err := db.New(db.Config{
			Driver: cfg.DB.Driver,
			DSN:    cfg.DB.DSN,
			Name:   cfg.DB.Name,
			Schema: cfg.DB.Schema,
		})
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", backend)
}

func newServeCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve the stored outputs over http",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			log := logger.New(context.Background())
			fs, err := storage.NewFileStorage(cfg.Server.OutputPath, cfg.Server.OutputURL)
			if err != nil {
				return err
			}
			log.Infof("serving %s on %s", cfg.Server.OutputPath, cfg.Server.Addr)
			return storage.NewHandler(fs).Serve(cfg.Server.Addr)
		},
	}
}

func newMapfileCmd() *cobra.Command {
	var l mapfile.Layer
	var dsn string
	cmd := &cobra.Command{
		Use:   "mapfile <table>",
		Short: "render a MapServer mapfile for a stored vector output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l.Table = args[0]
			if l.Name == "" {
				l.Name = l.Table
			}
			if dsn != "" {
				pg, err := sql.Open("postgres", dsn)
				if err != nil {
					return err
				}
				defer pg.Close()
				filled, err := mapfile.FromTable(cmd.Context(), pg, l)
				if err != nil {
					return err
				}
				l = filled
			}
			return mapfile.Generate(cmd.OutOrStdout(), l)
		},
	}
	cmd.Flags().StringVar(&l.Name, "name", "", "layer name, defaults to the table name")
	cmd.Flags().StringVar(&l.Connection, "connection", "", "postgres connection string written into the mapfile")
	cmd.Flags().StringVar(&l.Extent, "extent", "", "extent as \"minx miny maxx maxy\"")
	cmd.Flags().StringVar(&l.Type, "type", "", "layer type: POINT, LINE or POLYGON")
	cmd.Flags().StringVar(&l.OnlineResource, "wms-url", "", "wms online resource advertised in the mapfile")
	cmd.Flags().StringVar(&dsn, "dsn", "", "query extent and geometry type from this postgres database")
	return cmd
}

func newKVPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kvp <execute.xml>",
		Short: "print the HTTP GET form of an Execute document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			e, err := wpsio.DecodeExecute(f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.KVP().Encode())
			return nil
		},
	}
}
