package config

// envRule binds one configuration aspect to a child-process environment
// setting. The table is the single source of truth for forked-runtime
// tuning; Materialize copies its output into every plan.
type envRule struct {
	Name    string
	Value   string
	Enabled func(RunConfig) bool // nil means always
}

// runtimeEnv provisions the measurement heap up front and keeps the
// collector out of timed windows. GC tracing joins in when the
// configuration asks for runtime diagnostics.
var runtimeEnv = []envRule{
	{Name: "GOGC", Value: "off"},
	{Name: "GOMEMLIMIT", Value: "4GiB"},
	{Name: "GODEBUG", Value: "gctrace=1", Enabled: func(c RunConfig) bool { return c.GCTrace }},
}

// EnvFor returns the child runtime environment for c, in KEY=VALUE form.
// Callers cannot inject additional variables; the table is fixed.
func EnvFor(c RunConfig) []string {
	env := make([]string, 0, len(runtimeEnv))
	for _, rule := range runtimeEnv {
		if rule.Enabled != nil && !rule.Enabled(c) {
			continue
		}
		env = append(env, rule.Name+"="+rule.Value)
	}
	return env
}
