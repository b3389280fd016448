package registry

import (
	"go.uber.org/multierr"

	"github.com/nao1215/fragnav/internal/config"
	"github.com/nao1215/fragnav/internal/model"
	"github.com/nao1215/fragnav/internal/param"
)

// FromConfig turns page declarations of a configuration file into
// descriptors of model.DynamicPage pages. Slot values are stored on the page
// under the slot key ("#0" or the parameter name).
func FromConfig(pages []config.PageConfig) ([]Descriptor, error) {
	descriptors := make([]Descriptor, 0, len(pages))

	var errs error
	for _, pc := range pages {
		specs, err := specsFromConfig(pc)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}

		descriptors = append(descriptors, Descriptor{
			ID:        pc.ID,
			Name:      pc.Name,
			Crawlable: pc.Crawlable,
			Params:    specs,
			New:       dynamicFactory(pc),
		})
	}

	if errs != nil {
		return nil, errs
	}
	return descriptors, nil
}

func dynamicFactory(pc config.PageConfig) Factory {
	return func() (model.Page, error) {
		page := model.NewDynamicPage(pc.ID, pc.Title, pc.Warning)
		page.SetLinks(pc.Links...)
		return page, nil
	}
}

func specsFromConfig(pc config.PageConfig) ([]param.Spec, error) {
	specs := make([]param.Spec, 0, len(pc.Params))

	var errs error
	for i, p := range pc.Params {
		kind, err := param.ParseKind(p.Kind)
		if err != nil {
			errs = multierr.Append(errs, model.NewConfigurationError("register", pc.ID,
				"parameter %d: %v", i, err))
			continue
		}
		if kind == param.KindCustom {
			errs = multierr.Append(errs, model.NewConfigurationError("register", pc.ID,
				"parameter %d: custom kinds need a converter and cannot be declared in a configuration file", i))
			continue
		}
		if p.Name != "" && p.Position != nil {
			errs = multierr.Append(errs, model.NewConfigurationError("register", pc.ID,
				"parameter %d has both a name and a position", i))
			continue
		}

		accessor := param.Dynamic(kind, p.Key())
		if kind == param.KindEntity {
			accessor = accessor.WithEntityType(p.Entity)
		}
		if kind == param.KindEnum {
			accessor = accessor.WithSymbols(p.Symbols...)
		}

		var s param.Spec
		switch {
		case p.Name != "":
			s = param.Named(p.Name, accessor)
		case p.Position != nil:
			s = param.Positional(*p.Position, accessor)
		default:
			errs = multierr.Append(errs, model.NewConfigurationError("register", pc.ID,
				"parameter %d has neither a name nor a position", i))
			continue
		}
		if p.Required {
			s = s.Require()
		}
		specs = append(specs, s)
	}

	return specs, errs
}
