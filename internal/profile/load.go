package profile

import (
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// LoadDir loads and compiles every service profile declared by the CUE
// files in a directory. All files are built as one CUE instance, so
// profiles may be split across files and share definitions.
func LoadDir(dir string) ([]Service, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("profiles directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("error accessing profiles directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("error scanning directory: %w", err)
	}
	if len(cueFiles) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	// Profiles are standalone CUE files without a package clause, so
	// they are named explicitly rather than loaded as a directory
	// package. All files unify into one instance.
	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances(cueFiles, cfg)
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", formatCUEError(err))
	}

	return CompileServices(value)
}

// CompileServices extracts every service profile under the top-level
// "service" field of a built CUE value.
func CompileServices(value cue.Value) ([]Service, error) {
	servicesVal := value.LookupPath(cue.ParsePath("service"))
	if !servicesVal.Exists() {
		return nil, fmt.Errorf("no service profiles declared (missing top-level \"service\" field)")
	}

	iter, err := servicesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var services []Service
	for iter.Next() {
		svc, err := CompileService(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("service.%s: %w", iter.Label(), err)
		}
		services = append(services, *svc)
	}

	if len(services) == 0 {
		return nil, fmt.Errorf("no service profiles declared")
	}
	return services, nil
}

// findCUEFiles returns all .cue files directly under dir, as paths
// relative to dir for the loader.
func findCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".cue") {
			files = append(files, "./"+entry.Name())
		}
	}
	return files, nil
}
