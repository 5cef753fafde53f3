package workflow

import (
	"os"
	"regexp"
)

// SecretSource resolves ${{ secrets.NAME }} references. *vault.Vault
// satisfies it.
type SecretSource interface {
	Get(name string) (string, bool)
}

var refPattern = regexp.MustCompile(`\$\{\{\s*(env|secrets)\.([A-Za-z0-9_.-]+)\s*\}\}`)

// expander substitutes ${{ env.X }} and ${{ secrets.X }} references.
type expander struct {
	env     map[string]string
	secrets SecretSource
	// missing collects references that could not be resolved.
	missing []string
}

func (x *expander) expand(s string) string {
	return refPattern.ReplaceAllStringFunc(s, func(ref string) string {
		m := refPattern.FindStringSubmatch(ref)
		kind, name := m[1], m[2]

		switch kind {
		case "env":
			if v, ok := x.env[name]; ok {
				return v
			}
			if v, ok := os.LookupEnv(name); ok {
				return v
			}
		case "secrets":
			if x.secrets != nil {
				if v, ok := x.secrets.Get(name); ok {
					return v
				}
			}
		}

		x.missing = append(x.missing, kind+"."+name)
		return ""
	})
}

// ReferencesSecrets reports whether any command, env value or hook of def
// uses ${{ secrets.X }}.
func ReferencesSecrets(def *Definition) bool {
	check := func(s string) bool {
		for _, m := range refPattern.FindAllStringSubmatch(s, -1) {
			if m[1] == "secrets" {
				return true
			}
		}
		return false
	}
	checkEnv := func(env map[string]string) bool {
		for _, v := range env {
			if check(v) {
				return true
			}
		}
		return false
	}

	if check(def.OnSuccess) || check(def.OnFailure) || checkEnv(def.Env) {
		return true
	}
	for _, step := range def.Steps {
		if check(step.Run) || check(step.Cwd) || checkEnv(step.Env) {
			return true
		}
	}
	return false
}

// mergeEnv layers maps left to right; later maps win.
func mergeEnv(layers ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			merged[k] = v
		}
	}
	return merged
}
