package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchretriever/internal/app"
	"github.com/kailas-cloud/searchretriever/internal/domain"
	logpkg "github.com/kailas-cloud/searchretriever/internal/logger"
)

var queryParallel int

var queryCmd = &cobra.Command{
	Use:   "query [queries...]",
	Short: "Retrieve records for one or more queries",
	Long: `Query runs one retrieval per argument and prints the records as JSON.
A single query prints its record list; several queries print one
{"query", "results"} object each, in argument order.

Examples:
  searchretriever query "What is the refund policy?"
  searchretriever query -p 4 "refunds" "shipping" "warranty"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().IntVarP(&queryParallel, "parallel", "p", 4, "maximum concurrent retrievals")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.Build(ctx, &cfg, logger, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	return writeQueries(ctx, cmd.OutOrStdout(), a.Retrieval, args, queryParallel)
}

// Retriever is the uniform retrieval contract used by the CLI.
type Retriever interface {
	Retrieve(ctx context.Context, query string) domain.ResultSet
}

// QueryResult pairs a query with its records.
type QueryResult struct {
	Query   string           `json:"query"`
	Results domain.ResultSet `json:"results"`
}

// retrieveAll fans queries out over a bounded ants pool and returns the
// results in input order.
func retrieveAll(ctx context.Context, r Retriever, queries []string, parallel int) ([]QueryResult, error) {
	if parallel < 1 {
		parallel = 1
	}
	if parallel > len(queries) {
		parallel = len(queries)
	}

	pool, err := ants.NewPool(parallel)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	out := make([]QueryResult, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			qctx := logpkg.WithFields(ctx, logger, zap.Int("query_index", i))
			out[i] = QueryResult{Query: q, Results: r.Retrieve(qctx, q)}
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit query %d: %w", i, err)
		}
	}
	wg.Wait()

	return out, nil
}

func writeQueries(ctx context.Context, w io.Writer, r Retriever, queries []string, parallel int) error {
	results, err := retrieveAll(ctx, r, queries, parallel)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0].Results)
	}
	return enc.Encode(results)
}
