package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"openeyes/internal/models"
	"openeyes/internal/repository"

	"github.com/go-playground/validator/v10"
)

// validate checks the struct tags on resource inputs. A single instance is
// cheap and safe for concurrent use.
var validate = validator.New()

// validationError flattens validator.ValidationErrors into one AppError
// message readable by API clients.
func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return models.NewValidationError(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s too long (max %s characters)", fe.Field(), fe.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return models.NewValidationError(strings.Join(msgs, "; "))
}

// ResourceService implements CRUD for the dashboard record types: conflicts,
// countries, violations, UN declarations and natural disasters.
type ResourceService struct {
	conflictRepo    repository.ConflictRepository
	countryRepo     repository.CountryRepository
	violationRepo   repository.ViolationRepository
	declarationRepo repository.DeclarationRepository
	disasterRepo    repository.DisasterRepository
	audit           *AuditLogger
}

func NewResourceService(
	conflictRepo repository.ConflictRepository,
	countryRepo repository.CountryRepository,
	violationRepo repository.ViolationRepository,
	declarationRepo repository.DeclarationRepository,
	disasterRepo repository.DisasterRepository,
	audit *AuditLogger,
) *ResourceService {
	return &ResourceService{
		conflictRepo:    conflictRepo,
		countryRepo:     countryRepo,
		violationRepo:   violationRepo,
		declarationRepo: declarationRepo,
		disasterRepo:    disasterRepo,
		audit:           audit,
	}
}

type ConflictInput struct {
	Name            string    `json:"name" validate:"required,max=200"`
	Region          string    `json:"region" validate:"required,max=100"`
	Status          string    `json:"status" validate:"omitempty,oneof=active resolved escalating de-escalating"`
	Severity        string    `json:"severity" validate:"omitempty,oneof=critical high medium low"`
	StartDate       time.Time `json:"start_date" validate:"required"`
	Casualties      int       `json:"casualties" validate:"gte=0"`
	InvolvedParties string    `json:"involved_parties"`
	Lat             *float64  `json:"lat"`
	Lon             *float64  `json:"lon"`
}

func (in ConflictInput) apply(c *models.Conflict) {
	c.Name = in.Name
	c.Region = in.Region
	if in.Status != "" {
		c.Status = models.ConflictStatus(in.Status)
	}
	if in.Severity != "" {
		c.Severity = models.Severity(in.Severity)
	}
	c.StartDate = in.StartDate
	c.Casualties = in.Casualties
	c.InvolvedParties = in.InvolvedParties
	c.Lat = in.Lat
	c.Lon = in.Lon
}

// CreateConflict validates and stores a new conflict record. Validation runs
// before any store write.
func (s *ResourceService) CreateConflict(ctx context.Context, actorID uint, in ConflictInput) (*models.Conflict, error) {
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	conflict := &models.Conflict{
		Status:      models.ConflictActive,
		Severity:    models.SeverityMedium,
		CreatedByID: &actorID,
	}
	in.apply(conflict)

	if err := s.conflictRepo.Create(ctx, conflict); err != nil {
		return nil, err
	}
	s.audit.Info(ctx, LogTypeRecordChange,
		fmt.Sprintf("conflict %q created", conflict.Name), &actorID)
	return conflict, nil
}

func (s *ResourceService) ListConflicts(ctx context.Context, filter repository.ConflictFilter, limit, offset int) ([]*models.Conflict, error) {
	return s.conflictRepo.List(ctx, filter, limit, offset)
}

func (s *ResourceService) GetConflict(ctx context.Context, id uint) (*models.Conflict, error) {
	return s.conflictRepo.GetByID(ctx, id)
}

func (s *ResourceService) UpdateConflict(ctx context.Context, actorID, id uint, in ConflictInput) (*models.Conflict, error) {
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	conflict, err := s.conflictRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(conflict)

	if err := s.conflictRepo.Update(ctx, conflict); err != nil {
		return nil, err
	}
	s.audit.Info(ctx, LogTypeRecordChange,
		fmt.Sprintf("conflict %q updated", conflict.Name), &actorID)
	return conflict, nil
}

func (s *ResourceService) DeleteConflict(ctx context.Context, actorID, id uint) error {
	if _, err := s.conflictRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.conflictRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Warning(ctx, LogTypeRecordChange,
		fmt.Sprintf("conflict %d deleted", id), &actorID)
	return nil
}

type CountryInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Population  int64  `json:"population" validate:"gte=0"`
	IsDemocracy bool   `json:"is_democracy"`
	President   string `json:"president" validate:"max=200"`
	FlagEmoji   string `json:"flag_emoji" validate:"max=16"`
}

func (in CountryInput) apply(c *models.Country) {
	c.Name = in.Name
	c.Population = in.Population
	c.IsDemocracy = in.IsDemocracy
	c.President = in.President
	c.FlagEmoji = in.FlagEmoji
}

func (s *ResourceService) CreateCountry(ctx context.Context, actorID uint, in CountryInput) (*models.Country, error) {
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	country := &models.Country{}
	in.apply(country)

	if err := s.countryRepo.Create(ctx, country); err != nil {
		return nil, err
	}
	s.audit.Info(ctx, LogTypeRecordChange,
		fmt.Sprintf("country %q created", country.Name), &actorID)
	return country, nil
}

func (s *ResourceService) ListCountries(ctx context.Context, search string, limit, offset int) ([]*models.Country, error) {
	return s.countryRepo.List(ctx, search, limit, offset)
}

func (s *ResourceService) GetCountry(ctx context.Context, id uint) (*models.Country, error) {
	return s.countryRepo.GetByID(ctx, id)
}

func (s *ResourceService) UpdateCountry(ctx context.Context, actorID, id uint, in CountryInput) (*models.Country, error) {
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	country, err := s.countryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(country)

	if err := s.countryRepo.Update(ctx, country); err != nil {
		return nil, err
	}
	s.audit.Info(ctx, LogTypeRecordChange,
		fmt.Sprintf("country %q updated", country.Name), &actorID)
	return country, nil
}

func (s *ResourceService) DeleteCountry(ctx context.Context, actorID, id uint) error {
	if _, err := s.countryRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.countryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Warning(ctx, LogTypeRecordChange,
		fmt.Sprintf("country %d deleted", id), &actorID)
	return nil
}

type ViolationInput struct {
	Title       string    `json:"title" validate:"required,max=300"`
	Type        string    `json:"type" validate:"required,max=100"`
	Country     string    `json:"country" validate:"required,max=200"`
	Date        time.Time `json:"date" validate:"required"`
	Description string    `json:"description" validate:"max=10000"`
	Severity    string    `json:"severity" validate:"omitempty,oneof=critical high medium low"`
}

func (in ViolationInput) apply(v *models.Violation) {
	v.Title = in.Title
	v.Type = in.Type
	v.Country = in.Country
	v.Date = in.Date
	v.Description = in.Description
	if in.Severity != "" {
		v.Severity = models.Severity(in.Severity)
	}
}

func (s *ResourceService) CreateViolation(ctx context.Context, actorID uint, in ViolationInput) (*models.Violation, error) {
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	violation := &models.Violation{
		Severity:    models.SeverityMedium,
		CreatedByID: &actorID,
	}
	in.apply(violation)

	if err := s.violationRepo.Create(ctx, violation); err != nil {
		return nil, err
	}
	s.audit.Info(ctx, LogTypeRecordChange,
		fmt.Sprintf("violation %q created", violation.Title), &actorID)
	return violation, nil
}

func (s *ResourceService) ListViolations(ctx context.Context, filter repository.ViolationFilter, limit, offset int) ([]*models.Violation, error) {
	return s.violationRepo.List(ctx, filter, limit, offset)
}

func (s *ResourceService) GetViolation(ctx context.Context, id uint) (*models.Violation, error) {
	return s.violationRepo.GetByID(ctx, id)
}

func (s *ResourceService) UpdateViolation(ctx context.Context, actorID, id uint, in ViolationInput) (*models.Violation, error) {
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	violation, err := s.violationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(violation)

	if err := s.violationRepo.Update(ctx, violation); err != nil {
		return nil, err
	}
	s.audit.Info(ctx, LogTypeRecordChange,
		fmt.Sprintf("violation %q updated", violation.Title), &actorID)
	return violation, nil
}

func (s *ResourceService) DeleteViolation(ctx context.Context, actorID, id uint) error {
	if _, err := s.violationRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.violationRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Warning(ctx, LogTypeRecordChange,
		fmt.Sprintf("violation %d deleted", id), &actorID)
	return nil
}

type DeclarationInput struct {
	Title   string    `json:"title" validate:"required,max=300"`
	Number  string    `json:"number" validate:"required,max=50"`
	Date    time.Time `json:"date" validate:"required"`
	Summary string    `json:"summary" validate:"max=10000"`
	Status  string    `json:"status" validate:"omitempty,oneof=draft adopted rejected"`
}

func (in DeclarationInput) apply(d *models.UNDeclaration) {
	d.Title = in.Title
	d.Number = in.Number
	d.Date = in.Date
	d.Summary = in.Summary
	if in.Status != "" {
		d.Status = models.DeclarationStatus(in.Status)
	}
}

func (s *ResourceService) CreateDeclaration(ctx context.Context, actorID uint, in DeclarationInput) (*models.UNDeclaration, error) {
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	declaration := &models.UNDeclaration{Status: models.DeclarationDraft}
	in.apply(declaration)

	if err := s.declarationRepo.Create(ctx, declaration); err != nil {
		return nil, err
	}
	s.audit.Info(ctx, LogTypeRecordChange,
		fmt.Sprintf("declaration %s created", declaration.Number), &actorID)
	return declaration, nil
}

func (s *ResourceService) ListDeclarations(ctx context.Context, status models.DeclarationStatus, limit, offset int) ([]*models.UNDeclaration, error) {
	return s.declarationRepo.List(ctx, status, limit, offset)
}

func (s *ResourceService) GetDeclaration(ctx context.Context, id uint) (*models.UNDeclaration, error) {
	return s.declarationRepo.GetByID(ctx, id)
}

func (s *ResourceService) UpdateDeclaration(ctx context.Context, actorID, id uint, in DeclarationInput) (*models.UNDeclaration, error) {
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	declaration, err := s.declarationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(declaration)

	if err := s.declarationRepo.Update(ctx, declaration); err != nil {
		return nil, err
	}
	s.audit.Info(ctx, LogTypeRecordChange,
		fmt.Sprintf("declaration %s updated", declaration.Number), &actorID)
	return declaration, nil
}

func (s *ResourceService) DeleteDeclaration(ctx context.Context, actorID, id uint) error {
	if _, err := s.declarationRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.declarationRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Warning(ctx, LogTypeRecordChange,
		fmt.Sprintf("declaration %d deleted", id), &actorID)
	return nil
}

type DisasterInput struct {
	Name        string    `json:"name" validate:"required,max=200"`
	Type        string    `json:"type" validate:"required,max=100"`
	Date        time.Time `json:"date" validate:"required"`
	Location    string    `json:"location" validate:"required,max=300"`
	Description string    `json:"description" validate:"max=10000"`
	Casualties  int       `json:"casualties" validate:"gte=0"`
	Magnitude   *float64  `json:"magnitude"`
	Lat         *float64  `json:"lat"`
	Lon         *float64  `json:"lon"`
}

func (in DisasterInput) apply(d *models.NaturalDisaster) {
	d.Name = in.Name
	d.Type = in.Type
	d.Date = in.Date
	d.Location = in.Location
	d.Description = in.Description
	d.Casualties = in.Casualties
	d.Magnitude = in.Magnitude
	d.Lat = in.Lat
	d.Lon = in.Lon
}

func (s *ResourceService) CreateDisaster(ctx context.Context, actorID uint, in DisasterInput) (*models.NaturalDisaster, error) {
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	disaster := &models.NaturalDisaster{CreatedByID: &actorID}
	in.apply(disaster)

	if err := s.disasterRepo.Create(ctx, disaster); err != nil {
		return nil, err
	}
	s.audit.Info(ctx, LogTypeRecordChange,
		fmt.Sprintf("natural disaster %q created", disaster.Name), &actorID)
	return disaster, nil
}

func (s *ResourceService) ListDisasters(ctx context.Context, disasterType string, limit, offset int) ([]*models.NaturalDisaster, error) {
	return s.disasterRepo.List(ctx, disasterType, limit, offset)
}

func (s *ResourceService) GetDisaster(ctx context.Context, id uint) (*models.NaturalDisaster, error) {
	return s.disasterRepo.GetByID(ctx, id)
}

func (s *ResourceService) UpdateDisaster(ctx context.Context, actorID, id uint, in DisasterInput) (*models.NaturalDisaster, error) {
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	disaster, err := s.disasterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(disaster)

	if err := s.disasterRepo.Update(ctx, disaster); err != nil {
		return nil, err
	}
	s.audit.Info(ctx, LogTypeRecordChange,
		fmt.Sprintf("natural disaster %q updated", disaster.Name), &actorID)
	return disaster, nil
}

func (s *ResourceService) DeleteDisaster(ctx context.Context, actorID, id uint) error {
	if _, err := s.disasterRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.disasterRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Warning(ctx, LogTypeRecordChange,
		fmt.Sprintf("natural disaster %d deleted", id), &actorID)
	return nil
}
