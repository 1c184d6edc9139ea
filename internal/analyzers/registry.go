package analyzers

// Registry returns every enabled analyzer in reporting order. The order is
// fixed so report and issue ordering stays stable across runs.
func Registry(deps Deps) []Analyzer {
	all := []struct {
		enabled bool
		build   func(Deps) Analyzer
	}{
		{deps.Config.Security.HardcodedSecrets.Enabled, func(d Deps) Analyzer { return NewHardcodedSecrets(d) }},
		{deps.Config.Security.HardcodedURLs.Enabled, func(d Deps) Analyzer { return NewHardcodedURLs(d) }},
		{deps.Config.Reliability.SwallowedExceptions.Enabled, func(d Deps) Analyzer { return NewSwallowedExceptions(d) }},
		{deps.Config.Reliability.ErrorSuppression.Enabled, func(d Deps) Analyzer { return NewErrorSuppression(d) }},
		{deps.Config.Performance.CollectionFiltering.Enabled, func(d Deps) Analyzer { return NewCollectionFiltering(d) }},
		{deps.Config.Reliability.ServiceLocator.Enabled, func(d Deps) Analyzer { return NewServiceLocator(d) }},
		{deps.Config.Reliability.TemplateLogic.Enabled, func(d Deps) Analyzer { return NewTemplateLogic(d) }},
		{deps.Config.Security.DebugDependencies.Enabled, func(d Deps) Analyzer { return NewDebugDependencies(d) }},
	}

	var out []Analyzer

	for _, entry := range all {
		if entry.enabled {
			out = append(out, entry.build(deps))
		}
	}

	return out
}

// Select filters analyzers by id. Only wins over skip; empty lists mean no
// filtering.
func Select(registry []Analyzer, only, skip []string) []Analyzer {
	if len(only) == 0 && len(skip) == 0 {
		return registry
	}

	wanted := make(map[string]struct{}, len(only))
	for _, id := range only {
		wanted[id] = struct{}{}
	}

	dropped := make(map[string]struct{}, len(skip))
	for _, id := range skip {
		dropped[id] = struct{}{}
	}

	var out []Analyzer

	for _, analyzer := range registry {
		id := analyzer.Metadata().ID

		if len(only) > 0 {
			if _, ok := wanted[id]; ok {
				out = append(out, analyzer)
			}

			continue
		}

		if _, ok := dropped[id]; !ok {
			out = append(out, analyzer)
		}
	}

	return out
}
