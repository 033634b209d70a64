// Command gqlexec runs queries against the todo example schema, prints its
// introspection, or serves it over HTTP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	graphql "github.com/graph-gophers/graphql-engine"
	"github.com/graph-gophers/graphql-engine/config"
	"github.com/graph-gophers/graphql-engine/example/todos"
	"github.com/graph-gophers/graphql-engine/relay"
	"github.com/graph-gophers/graphql-engine/trace/prometheus"
)

const envPrefix = "GQL_"

type rootOptions struct {
	configFile string
	strategy   string
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "gqlexec",
		Short:         "Execute GraphQL queries against the todo example schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&opts.strategy, "strategy", "", "execution strategy: current-thread, non-blocking or spawner")

	rootCmd.AddCommand(newQueryCmd(opts), newSchemaCmd(opts), newServeCmd(opts))
	return rootCmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	var files []string
	if o.configFile != "" {
		files = append(files, o.configFile)
	}
	cfg, err := config.Load(envPrefix, files...)
	if err != nil {
		return nil, err
	}
	if o.strategy != "" {
		cfg.Strategy = o.strategy
	}
	return cfg, nil
}

func (o *rootOptions) engine(extra ...graphql.Option) (*graphql.Engine, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	opts := append([]graphql.Option{graphql.Root(&todos.Resolver{Store: todos.NewStore()})}, extra...)
	return graphql.FromConfig(todos.Schema(), cfg, opts...)
}

func newQueryCmd(opts *rootOptions) *cobra.Command {
	var (
		variables string
		operation string
		pretty    bool
	)
	cmd := &cobra.Command{
		Use:   "query [file]",
		Short: "Execute the query read from file, or from stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				src []byte
				err error
			)
			if len(args) == 1 {
				src, err = os.ReadFile(args[0])
			} else {
				src, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			req := &graphql.Request{Query: string(src), OperationName: operation}
			if variables != "" {
				if err := json.Unmarshal([]byte(variables), &req.Variables); err != nil {
					return fmt.Errorf("invalid --vars: %w", err)
				}
			}

			e, err := opts.engine()
			if err != nil {
				return err
			}
			defer e.Close()

			resp := e.Execute(cmd.Context(), req)
			if err := writeJSON(cmd.OutOrStdout(), resp, pretty); err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("query returned %d error(s)", len(resp.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&variables, "vars", "", "variables as a JSON object")
	cmd.Flags().StringVar(&operation, "operation", "", "name of the operation to execute")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON response")
	return cmd
}

func newSchemaCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the introspection result of the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.engine()
			if err != nil {
				return err
			}
			defer e.Close()

			out, err := e.ToJSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schema over HTTP, with metrics on /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			metrics := prometheus.NewTracer(nil)
			e, err := opts.engine(graphql.Tracer(metrics))
			if err != nil {
				return err
			}
			defer e.Close()

			mux := http.NewServeMux()
			mux.Handle("/graphql", &relay.Handler{Engine: e})
			mux.Handle("/metrics", metrics.Handler())
			srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
