package school

import (
	"context"
	"time"
)

type (
	Repository interface {
		CreateSchool(ctx context.Context, sch School) (School, error)
		GetSchoolByID(ctx context.Context, id string) (School, error)
		QueryAllSchools(ctx context.Context) ([]School, error)

		CreateClass(ctx context.Context, cls Class) (Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)
		QueryClassesBySchool(ctx context.Context, schoolID string) ([]Class, error)

		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		// ListActiveStudentIDs returns the roster of a class: the set of
		// active student IDs, used to filter attendance submissions.
		ListActiveStudentIDs(ctx context.Context, classID string) (map[string]struct{}, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateSchool(ctx context.Context, ns NewSchool) (School, error) {
	now := time.Now().UTC()
	return svc.repo.CreateSchool(ctx, School{
		Name:      ns.Name,
		Address:   ns.Address,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetSchool(ctx context.Context, id string) (School, error) {
	return svc.repo.GetSchoolByID(ctx, id)
}

func (svc *Service) QuerySchools(ctx context.Context) ([]School, error) {
	return svc.repo.QueryAllSchools(ctx)
}

func (svc *Service) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	if _, err := svc.repo.GetSchoolByID(ctx, nc.SchoolID); err != nil {
		return Class{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateClass(ctx, Class{
		SchoolID:  nc.SchoolID,
		Name:      nc.Name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetClass(ctx context.Context, id string) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

func (svc *Service) QueryClasses(ctx context.Context, schoolID string) ([]Class, error) {
	return svc.repo.QueryClassesBySchool(ctx, schoolID)
}

func (svc *Service) EnrollStudent(ctx context.Context, ns NewStudent) (Student, error) {
	if _, err := svc.repo.GetClassByID(ctx, ns.ClassID); err != nil {
		return Student{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateStudent(ctx, Student{
		ClassID:   ns.ClassID,
		Name:      ns.Name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) Roster(ctx context.Context, classID string) (map[string]struct{}, error) {
	return svc.repo.ListActiveStudentIDs(ctx, classID)
}
