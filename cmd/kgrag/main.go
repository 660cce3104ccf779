package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"hash/fnv"
	"os"
	"strings"

	"github.com/dd0wney/cluso-kgrag/pkg/graph"
	"github.com/dd0wney/cluso-kgrag/pkg/logging"
	"github.com/dd0wney/cluso-kgrag/pkg/rag"
	"github.com/dd0wney/cluso-kgrag/pkg/schema"
	"github.com/dd0wney/cluso-kgrag/pkg/traversal"
	"github.com/dd0wney/cluso-kgrag/pkg/vector"
)

// Exit codes: 0 success, 1 validation failed, 2 unexpected runtime error.
const (
	exitOK         = 0
	exitValidation = 1
	exitRuntime    = 2
)

var logger = logging.DefaultLogger()

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(exitRuntime)
	}

	var err error
	switch os.Args[1] {
	case "seed":
		err = runSeed(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "subgraph":
		err = runSubgraph(os.Args[2:])
	case "context":
		err = runContext(os.Args[2:])
	case "check":
		err = runCheck(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(exitRuntime)
	}

	if err != nil {
		var failed *validationFailure
		if errors.As(err, &failed) {
			os.Exit(exitValidation)
		}
		logger.Error("command failed", logging.Error(err))
		os.Exit(exitRuntime)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `kgrag - property graph store with hybrid KG+vector retrieval

Usage:
  kgrag seed     -in graph.json -out graph.kgs
  kgrag validate -graph <file> -schema <file> [-connectivity]
  kgrag subgraph -graph <file> -seeds a,b -depth 2 -max-nodes 60 [-edge-labels R,S]
  kgrag context  -graph <file> -passages passages.json -query "..." [-seeds a,b] [-hops 1] [-k 8]
  kgrag check    -graph <file> -draft "..."

Graph files may be interop JSON (.json) or compressed snapshots (.kgs).
Exit codes: 0 success, 1 validation failed, 2 runtime error.
`)
}

// validationFailure signals exit code 1 without an error log.
type validationFailure struct{ issues int }

func (v *validationFailure) Error() string {
	return fmt.Sprintf("validation failed with %d issues", v.issues)
}

// loadStore reads a graph file (JSON or compressed snapshot) into a store.
func loadStore(path string) (*graph.Store, error) {
	var snap *graph.Snapshot
	var err error
	if strings.HasSuffix(path, ".json") {
		var data []byte
		data, err = os.ReadFile(path)
		if err == nil {
			snap, err = graph.DecodeSnapshotJSON(data)
		}
	} else {
		snap, err = graph.ReadSnapshotFile(path)
	}
	if err != nil {
		return nil, err
	}

	store := graph.NewStore()
	if err := store.LoadSnapshot(snap); err != nil {
		return nil, err
	}
	return store, nil
}

func runSeed(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	in := fs.String("in", "", "Input snapshot (interop JSON)")
	out := fs.String("out", "", "Output path for the compressed snapshot")
	fs.Parse(args)
	if *in == "" || *out == "" {
		return fmt.Errorf("seed: -in and -out are required")
	}

	store, err := loadStore(*in)
	if err != nil {
		return err
	}
	if err := graph.WriteSnapshotFile(store.Snapshot(), *out); err != nil {
		return err
	}

	logger.Info("snapshot written",
		logging.String("path", *out),
		logging.Int("nodes", store.NodeCount()),
		logging.Int("edges", store.EdgeCount()))
	return nil
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	graphPath := fs.String("graph", "", "Graph file")
	schemaPath := fs.String("schema", "", "Schema document (YAML or JSON)")
	connectivity := fs.Bool("connectivity", false, "Also warn about disconnected components")
	fs.Parse(args)
	if *graphPath == "" || *schemaPath == "" {
		return fmt.Errorf("validate: -graph and -schema are required")
	}

	store, err := loadStore(*graphPath)
	if err != nil {
		return err
	}
	doc, err := schema.Load(*schemaPath)
	if err != nil {
		return err
	}

	var opts []schema.ValidateOption
	if *connectivity {
		opts = append(opts, schema.WithConnectivityWarnings())
	}
	result := schema.ValidateStructure(store, doc, opts...)

	for _, issue := range result.Issues {
		fmt.Printf("[%s] %s\n", issue.Severity, issue.Message)
	}
	if !result.OK {
		return &validationFailure{issues: len(result.Errors())}
	}
	fmt.Printf("ok: %d nodes, %d edges, %d warnings\n",
		store.NodeCount(), store.EdgeCount(), len(result.Issues))
	return nil
}

func runSubgraph(args []string) error {
	fs := flag.NewFlagSet("subgraph", flag.ExitOnError)
	graphPath := fs.String("graph", "", "Graph file")
	seeds := fs.String("seeds", "", "Comma-separated seed node ids")
	depth := fs.Int("depth", 1, "Expansion depth in hops")
	maxNodes := fs.Int("max-nodes", 60, "Node budget (0 = unbounded)")
	edgeLabels := fs.String("edge-labels", "", "Comma-separated edge label allow-list")
	fs.Parse(args)
	if *graphPath == "" {
		return fmt.Errorf("subgraph: -graph is required")
	}

	store, err := loadStore(*graphPath)
	if err != nil {
		return err
	}

	engine := traversal.NewEngine(store)
	snap, err := engine.Subgraph(splitList(*seeds), traversal.SubgraphOptions{
		Depth:      *depth,
		EdgeLabels: splitList(*edgeLabels),
		MaxNodes:   *maxNodes,
	})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runContext(args []string) error {
	fs := flag.NewFlagSet("context", flag.ExitOnError)
	graphPath := fs.String("graph", "", "Graph file")
	passagesPath := fs.String("passages", "", "Passages file (JSON array of {id,text,metadata})")
	query := fs.String("query", "", "Free-text query")
	seeds := fs.String("seeds", "", "Comma-separated seed node ids")
	hops := fs.Int("hops", 0, "Expansion depth (0 = default, -1 = seeds only)")
	k := fs.Int("k", 0, "Passages to retrieve (0 = default)")
	fs.Parse(args)
	if *graphPath == "" {
		return fmt.Errorf("context: -graph is required")
	}

	store, err := loadStore(*graphPath)
	if err != nil {
		return err
	}

	searcher, err := buildSearcher(*passagesPath)
	if err != nil {
		return err
	}

	orchestrator := rag.NewOrchestrator(store, searcher, rag.WithLogger(logger))
	cfg := rag.Config{ExpandHops: *hops, VectorK: *k}
	bundle, err := orchestrator.BuildContext(context.Background(),
		rag.Query{Text: *query, Seeds: splitList(*seeds)}, cfg, nil)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	graphPath := fs.String("graph", "", "Graph file")
	draft := fs.String("draft", "", "Draft text to check")
	fs.Parse(args)
	if *graphPath == "" {
		return fmt.Errorf("check: -graph is required")
	}

	store, err := loadStore(*graphPath)
	if err != nil {
		return err
	}

	// The core performs no semantic checks on its own; domain rules come from
	// a wrapper's capability hooks. Without one, the draft passes.
	orchestrator := rag.NewOrchestrator(store, nil, rag.WithLogger(logger))
	result := orchestrator.CheckConsistency(*draft, nil)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	if !result.OK {
		return &validationFailure{issues: len(result.Issues)}
	}
	return nil
}

// passageDoc is the on-disk shape for a demo passage.
type passageDoc struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// buildSearcher indexes the passages file under the bundled cosine index with
// a deterministic hash embedder. An empty path means no search capability;
// builds then degrade to KG-only bundles.
func buildSearcher(path string) (rag.Searcher, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var passages []passageDoc
	if err := json.Unmarshal(data, &passages); err != nil {
		return nil, fmt.Errorf("parse passages %s: %w", path, err)
	}

	index := vector.NewIndex()
	for _, p := range passages {
		if err := index.Add(vector.Entry{
			ID:        p.ID,
			Text:      p.Text,
			Embedding: hashEmbed(p.Text),
			Metadata:  p.Metadata,
		}); err != nil {
			return nil, err
		}
	}
	return &vector.SearchAdapter{
		Index: index,
		Embed: func(text string) ([]float32, error) { return hashEmbed(text), nil },
	}, nil
}

const hashEmbedDims = 64

// hashEmbed projects text into a bag-of-words hash embedding. Deterministic
// and dependency-free; stands in for a real embedding model in demos.
func hashEmbed(text string) []float32 {
	v := make([]float32, hashEmbedDims)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		v[h.Sum32()%hashEmbedDims]++
	}
	return vector.Normalize(v)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
