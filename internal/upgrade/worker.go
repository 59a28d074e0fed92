package upgrade

import (
	"context"

	"github.com/conn-castle/upgrade-console/internal/app"
	"github.com/conn-castle/upgrade-console/internal/subprocess"
	"github.com/conn-castle/upgrade-console/internal/wizard"
)

// WorkerHandlers serves the wizard registry to the parent process.
func WorkerHandlers(env *app.Context, reg *wizard.Registry) subprocess.Handlers {
	return subprocess.Handlers{
		subprocess.OpListWizards: func(ctx context.Context, _ map[string]any) (any, error) {
			listing, err := reg.List(ctx, env)
			if err != nil {
				return nil, err
			}
			return wizard.ListingToValue(listing), nil
		},
		subprocess.OpExecuteWizard: func(ctx context.Context, args map[string]any) (any, error) {
			req, err := wizard.RequestFromValue(args)
			if err != nil {
				return nil, err
			}
			result, err := reg.Execute(ctx, env, req)
			if err != nil {
				return nil, err
			}
			return wizard.ResultToValue(result), nil
		},
	}
}
