package components

import (
	repo_impl "entitlement-service/internal/infra/repository"
	"entitlement-service/internal/usecase/shared"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewSnapshotRepository,
			fx.As(new(shared.SnapshotRepository)),
		),
	),
)
