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

const module = "lacthermo/"

// within reports whether path is pkg itself or one of its subpackages.
func within(path, pkg string) bool {
	return path == pkg || strings.HasPrefix(path, strings.TrimSuffix(pkg, "/")+"/")
}

func TestImportBoundaries(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go tool not on PATH")
	}
	cmd := exec.Command("go", "list", "-e", "-json", "./...")
	cmd.Dir = "../.."
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	// The numeric core must not reach the CLI, output or config layers.
	outer := []string{
		"lacthermo/internal/app", "lacthermo/internal/appshell", "lacthermo/internal/cliutil",
		"lacthermo/internal/config", "lacthermo/internal/logging", "lacthermo/internal/writers",
		"lacthermo/internal/dataset", "lacthermo/pkg/api", "lacthermo/cmd",
	}
	core := append([]string{"lacthermo/internal/constants"}, outer...)
	data := []string{"lacthermo/internal/app", "lacthermo/internal/writers", "lacthermo/internal/config", "lacthermo/cmd"}
	render := []string{
		"lacthermo/internal/app", "lacthermo/internal/config", "lacthermo/internal/thermo",
		"lacthermo/internal/seqmat", "lacthermo/cmd",
	}
	bans := map[string][]string{
		"lacthermo/internal/ndarray":   append([]string{"lacthermo/internal/thermo", "lacthermo/internal/seqmat"}, core...),
		"lacthermo/internal/thermo":    append([]string{"lacthermo/internal/seqmat"}, core...),
		"lacthermo/internal/seqmat":    append([]string{"lacthermo/internal/thermo", "lacthermo/internal/ndarray"}, core...),
		"lacthermo/internal/constants": outer,
		"lacthermo/internal/dataset":   data,
		"lacthermo/internal/writers":   render,
		"lacthermo/pkg/api":            {"lacthermo/internal/"},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, module) {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !within(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, module) {
					continue
				}
				for _, ban := range forbidden {
					if within(dep, ban) {
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
