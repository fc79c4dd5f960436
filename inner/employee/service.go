package employee

import (
	"context"
	"fmt"

	"employeeapi/inner/common"

	"go.uber.org/zap"
)

type Service struct {
	repo      Repo
	validator Validator
	logger    *common.Logger
}

type Repo interface {
	FindById(ctx context.Context, id int64) (Entity, bool, error)
	FindPage(ctx context.Context, limit, offset int) ([]Entity, error)
	Insert(ctx context.Context, employee Entity) (Entity, error)
	Update(ctx context.Context, employee Entity) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// функция-конструктор
func NewService(repo Repo, validator Validator, logger *common.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		logger:    logger,
	}
}

func (svc *Service) GetById(ctx context.Context, id int64) (Representation, error) {
	svc.logger.Debug("Finding employee by ID", zap.Int64("id", id))

	entity, found, err := svc.repo.FindById(ctx, id)
	if err != nil {
		svc.logger.Error("Failed to find employee by ID",
			zap.Int64("id", id),
			zap.Error(err))
		return Representation{}, fmt.Errorf("error finding employee with id %d: %w", id, err)
	}
	if !found {
		return Representation{}, common.NotFoundError{Message: "The employee does not exist"}
	}
	return entity.toRepresentation(), nil
}

// List page и size начинаются с 1; offset = (page-1)*size
func (svc *Service) List(ctx context.Context, page, size int) ([]Representation, error) {
	svc.logger.Debug("Finding employees page",
		zap.Int("page", page),
		zap.Int("size", size))

	if err := validatePage(svc.validator, page, size); err != nil {
		return nil, err
	}

	var offset = (page - 1) * size
	entities, err := svc.repo.FindPage(ctx, size, offset)
	if err != nil {
		svc.logger.Error("Failed to find employees page",
			zap.Int("limit", size),
			zap.Int("offset", offset),
			zap.Error(err))
		return nil, fmt.Errorf("error finding employees page: %w", err)
	}

	var representations = make([]Representation, len(entities))
	for i := range entities {
		representations[i] = entities[i].toRepresentation()
	}
	return representations, nil
}

// Create id из запроса игнорируется, его назначает база
func (svc *Service) Create(ctx context.Context, rep Representation) (Representation, error) {
	svc.logger.Debug("Creating employee", zap.Stringer("employee", rep))

	entity, err := svc.vet(rep)
	if err != nil {
		return Representation{}, err
	}
	entity.Id = 0

	created, err := svc.repo.Insert(ctx, entity)
	if err != nil {
		svc.logger.Error("Failed to insert employee",
			zap.String("name", entity.Name),
			zap.Error(err))
		return Representation{}, fmt.Errorf("error creating employee: %w", err)
	}
	svc.logger.Info("Employee created",
		zap.Int64("id", created.Id),
		zap.String("role", created.Role.String()))
	return created.toRepresentation(), nil
}

// Update полная замена записи; id из пути важнее id из тела
func (svc *Service) Update(ctx context.Context, id *int64, rep Representation) (Representation, error) {
	if err := validateId(svc.validator, id); err != nil {
		return Representation{}, err
	}
	svc.logger.Debug("Updating employee", zap.Int64("id", *id), zap.Stringer("employee", rep))

	entity, err := svc.vet(rep)
	if err != nil {
		return Representation{}, err
	}
	entity.Id = *id

	updated, err := svc.repo.Update(ctx, entity)
	if err != nil {
		svc.logger.Error("Failed to update employee",
			zap.Int64("id", *id),
			zap.Error(err))
		return Representation{}, fmt.Errorf("error updating employee with id %d: %w", *id, err)
	}
	if !updated {
		return Representation{}, common.NotFoundError{Message: "The employee does not exist"}
	}
	svc.logger.Info("Employee updated", zap.Int64("id", *id))
	return entity.toRepresentation(), nil
}

func (svc *Service) Delete(ctx context.Context, id *int64) error {
	if err := validateId(svc.validator, id); err != nil {
		return err
	}

	deleted, err := svc.repo.Delete(ctx, *id)
	if err != nil {
		svc.logger.Error("Failed to delete employee",
			zap.Int64("id", *id),
			zap.Error(err))
		return fmt.Errorf("error deleting employee with id %d: %w", *id, err)
	}
	if !deleted {
		return common.NotFoundError{Message: fmt.Sprintf("The Id %d was not found to delete", *id)}
	}
	svc.logger.Info("Employee deleted", zap.Int64("id", *id))
	return nil
}

// vet проверяет правила и строит сущность
func (svc *Service) vet(rep Representation) (Entity, error) {
	if err := validateRepresentation(svc.validator, rep); err != nil {
		svc.logger.Debug("Employee rejected", zap.Error(err))
		return Entity{}, err
	}
	entity, err := rep.toEntity()
	if err != nil {
		return Entity{}, common.BusinessRuleViolation{Message: invalidRoleMessage(*rep.Role())}
	}
	return entity, nil
}
