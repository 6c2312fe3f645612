// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	// core/* holds the domain-independent primitives (rolling hash,
	// canonical k-mers, FASTA streaming) and must never import anything
	// above it — not the assembler core's own collaborators, and
	// certainly not the CLI or entrypoint layers.
	corePackages := []string{
		"dbgasm/core/rollinghash", "dbgasm/core/kmer", "dbgasm/core/fasta",
	}
	coreBans := []string{
		"dbgasm/internal/", "dbgasm/pkg/", "dbgasm/cmd/",
	}

	// The assembler core's own collaborators (graph/branch/assemblepath/
	// filter/assemble/pipeline/metrics/apperr/graphviz/filterbuild) must
	// never import the CLI or entrypoint layers that sit above them,
	// mirroring the teacher's engine-must-not-import-cli boundary.
	domainPackages := []string{
		"dbgasm/internal/graph", "dbgasm/internal/branch", "dbgasm/internal/assemblepath",
		"dbgasm/internal/filter", "dbgasm/internal/assemble", "dbgasm/internal/pipeline",
		"dbgasm/internal/metrics", "dbgasm/internal/apperr", "dbgasm/internal/graphviz",
		"dbgasm/internal/filterbuild", "dbgasm/internal/appshell", "dbgasm/internal/writers",
	}
	domainBans := []string{
		"dbgasm/internal/cli", "dbgasm/cmd/",
	}

	bans := map[string][]string{}
	for _, p := range corePackages {
		bans[p] = coreBans
	}
	for _, p := range domainPackages {
		bans[p] = domainBans
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, "dbgasm/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, "dbgasm/") {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
