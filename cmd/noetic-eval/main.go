// Command noetic-eval resolves one field of a JSON record against a YAML
// rule file, trampolining on NotLoaded against a JSON association
// fixture until the evaluation settles or the fixture runs dry.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cognicore/noetic/pkg/noetic/cache"
	"github.com/cognicore/noetic/pkg/noetic/engine"
	"github.com/cognicore/noetic/pkg/noetic/record"
	"github.com/cognicore/noetic/pkg/noetic/registry"
	"github.com/cognicore/noetic/pkg/noetic/result"
)

func main() {
	var (
		rulesPath  = flag.String("rules", "", "Rule source YAML file (required)")
		recordPath = flag.String("record", "", "JSON object to use as the subject record (required)")
		assocPath  = flag.String("assoc", "", "Optional JSON file of field name -> value, used to resolve pending fields")
		typeTag    = flag.String("type", "record", "Type tag to evaluate rules under")
		field      = flag.String("field", "", "Field name to resolve (required)")
		pending    = flag.String("pending", "", "Comma-separated field names to mark pending before resolving")
	)
	flag.Parse()

	if *rulesPath == "" || *recordPath == "" || *field == "" {
		log.Fatal("--rules, --record, and --field are required")
	}

	got, rounds, err := resolveField(*rulesPath, *recordPath, *assocPath, *typeTag, *field, *pending)
	if err != nil {
		log.Fatal(err)
	}

	switch {
	case got.IsOk():
		out, _ := json.Marshal(got.Value())
		fmt.Printf("ok %s (%d round(s))\n", out, rounds)
	case got.IsNotLoaded():
		fmt.Printf("not_loaded %d pending request(s) (%d round(s))\n", len(got.Requests()), rounds)
		os.Exit(1)
	default:
		fmt.Printf("error %v (%d round(s))\n", got.Err(), rounds)
		os.Exit(1)
	}
}

// resolveField wires up a registry, record, and cache from the given file
// paths, then trampolines: every time evaluation comes back NotLoaded, it
// consults the association fixture for each pending request, primes the
// cache with whatever it finds, and re-invokes — the host side of §5's
// re-entry contract. It stops and returns the NotLoaded result once a
// round makes no progress against the fixture, so a request the fixture
// can never satisfy doesn't loop forever. It is split out of main so the
// wiring and the round count can be exercised directly from tests.
func resolveField(rulesPath, recordPath, assocPath, typeTag, field, pending string) (result.Result[any], int, error) {
	reg, err := registry.LoadYAML(rulesPath, nil)
	if err != nil {
		return result.Result[any]{}, 0, fmt.Errorf("load rules: %w", err)
	}

	fields, err := readJSONMap(recordPath)
	if err != nil {
		return result.Result[any]{}, 0, fmt.Errorf("read record: %w", err)
	}
	rec := record.NewTaggedRecord(typeTag, fields)
	for _, key := range splitCSV(pending) {
		rec.MarkPending(key)
	}

	var assoc map[string]any
	if assocPath != "" {
		assoc, err = readJSONMap(assocPath)
		if err != nil {
			return result.Result[any]{}, 0, fmt.Errorf("read assoc: %w", err)
		}
	}

	mem, err := cache.NewLRU(64)
	if err != nil {
		return result.Result[any]{}, 0, fmt.Errorf("build cache: %w", err)
	}
	ev := engine.NewEval(rec).WithRegistry(reg).WithCache(mem)

	rounds := 0
	for {
		rounds++
		got := engine.ResolveField(ev, field)
		if !got.IsNotLoaded() {
			return got, rounds, nil
		}
		if !primeCache(mem, got.Requests(), assoc) {
			return got, rounds, nil
		}
	}
}

// primeCache resolves each pending request against the association
// fixture and populates cache with whatever it has answers for,
// reporting whether it made any progress this round.
func primeCache(c *cache.LRU, reqs result.Requests, assoc map[string]any) bool {
	progressed := false
	for _, req := range reqs {
		if v, ok := assoc[req.Key]; ok {
			c.Put(req, v)
			progressed = true
		}
	}
	return progressed
}

func readJSONMap(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
