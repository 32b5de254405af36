package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakshiot4/UrbanWatch-plus/internal/models"
	"github.com/sakshiot4/UrbanWatch-plus/internal/repository"
)

// SeedService generates demo data for development environments: one officer
// per region, an approved contractor per region and category, a handful of
// citizens, and sample complaints at every lifecycle stage.
type SeedService struct {
	users       *repository.UserRepository
	citizens    *repository.CitizenRepository
	officers    *repository.OfficerRepository
	contractors *repository.ContractorRepository
	complaints  *repository.ComplaintRepository
}

// NewSeedService creates the seeding service.
func NewSeedService(
	users *repository.UserRepository,
	citizens *repository.CitizenRepository,
	officers *repository.OfficerRepository,
	contractors *repository.ContractorRepository,
	complaints *repository.ComplaintRepository,
) *SeedService {
	return &SeedService{
		users:       users,
		citizens:    citizens,
		officers:    officers,
		contractors: contractors,
		complaints:  complaints,
	}
}

var (
	seedRegions    = []string{models.RegionNorth, models.RegionSouth, models.RegionEast, models.RegionWest, models.RegionCentral}
	seedCategories = []string{models.CategoryWater, models.CategoryRoad, models.CategoryElectricity, models.CategorySanitation, models.CategoryOther}

	seedFirstNames = []string{
		"Aarav", "Vihaan", "Aditya", "Rohan", "Kabir", "Arjun", "Dev", "Ishaan",
		"Ananya", "Diya", "Saanvi", "Mira", "Kavya", "Riya", "Tara", "Nisha",
	}
	seedLastNames = []string{
		"Sharma", "Patel", "Mehta", "Singh", "Kulkarni", "Joshi", "Desai", "Nair",
		"Reddy", "Iyer", "Bose", "Kapoor", "Shah", "Das", "Rao", "Gupta",
	}
	seedCompanies = []string{
		"Metro Works", "CityFix Services", "Apex Infra", "Shree Constructions",
		"Blue Line Utilities", "Sunrise Maintenance", "UrbanCare Solutions",
	}
	seedTitles = map[string][]string{
		models.CategoryWater: {
			"Water pipeline leaking near the market",
			"No water supply for two days",
			"Contaminated water from public tap",
		},
		models.CategoryRoad: {
			"Large pothole on the main road",
			"Broken speed breaker near the school",
			"Road caved in after the rains",
		},
		models.CategoryElectricity: {
			"Street light not working for a week",
			"Exposed electric wires near the bus stop",
			"Frequent power cuts in the evening",
		},
		models.CategorySanitation: {
			"Garbage not collected for days",
			"Overflowing drain near the park",
			"Public toilet in bad condition",
		},
		models.CategoryOther: {
			"Stray cattle blocking traffic",
			"Illegal banners on public property",
			"Broken bench in the community garden",
		},
	}
)

// SeedDemoData populates the database with a working demo. Intended for
// development only; the router exposes it solely outside production.
func (s *SeedService) SeedDemoData(ctx context.Context) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte("Demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed service: hash password: %w", err)
	}

	officers, err := s.seedOfficers(ctx, string(passwordHash))
	if err != nil {
		return fmt.Errorf("seed service: officers: %w", err)
	}

	contractors, err := s.seedContractors(ctx, string(passwordHash), officers)
	if err != nil {
		return fmt.Errorf("seed service: contractors: %w", err)
	}

	citizens, err := s.seedCitizens(ctx, string(passwordHash))
	if err != nil {
		return fmt.Errorf("seed service: citizens: %w", err)
	}

	if err := s.seedComplaints(ctx, citizens, officers, contractors); err != nil {
		return fmt.Errorf("seed service: complaints: %w", err)
	}

	return nil
}

func (s *SeedService) seedOfficers(ctx context.Context, passwordHash string) (map[string]*models.Officer, error) {
	officers := make(map[string]*models.Officer, len(seedRegions))
	now := time.Now()

	for _, region := range seedRegions {
		email := fmt.Sprintf("officer.%s@urbanwatch.dev", region)
		user := &models.User{
			ID:           uuid.New(),
			Email:        email,
			Username:     "officer_" + region,
			PasswordHash: passwordHash,
			Role:         models.RoleOfficer,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}

		officer := &models.Officer{
			ID:        uuid.New(),
			UserID:    user.ID,
			Name:      fmt.Sprintf("%s %s", pick(seedFirstNames), pick(seedLastNames)),
			Email:     email,
			Phone:     randomPhone(),
			Region:    region,
			CreatedAt: now,
		}
		if err := s.officers.Create(ctx, officer); err != nil {
			return nil, err
		}
		officers[region] = officer
	}
	return officers, nil
}

func (s *SeedService) seedContractors(ctx context.Context, passwordHash string, officers map[string]*models.Officer) (map[string][]*models.Contractor, error) {
	contractors := make(map[string][]*models.Contractor, len(seedRegions))
	now := time.Now()

	for _, region := range seedRegions {
		approver := officers[region]
		for _, category := range seedCategories {
			email := fmt.Sprintf("%s.%s@contractors.urbanwatch.dev", category, region)
			user := &models.User{
				ID:           uuid.New(),
				Email:        email,
				Username:     fmt.Sprintf("contractor_%s_%s", category, region),
				PasswordHash: passwordHash,
				Role:         models.RoleContractor,
				IsActive:     true,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := s.users.Create(ctx, user); err != nil {
				return nil, err
			}

			approvedAt := now
			contractor := &models.Contractor{
				ID:             uuid.New(),
				UserID:         user.ID,
				Name:           fmt.Sprintf("%s %s", pick(seedFirstNames), pick(seedLastNames)),
				Email:          email,
				Phone:          randomPhone(),
				CompanyName:    pick(seedCompanies),
				LicenseNumber:  fmt.Sprintf("LIC-%s-%04d", region, rand.Intn(10000)),
				Specialization: category,
				Region:         region,
				Status:         models.ApprovalApproved,
				ApprovedByID:   &approver.ID,
				ApprovedAt:     &approvedAt,
				CreatedAt:      now,
			}
			if err := s.contractors.Create(ctx, contractor); err != nil {
				return nil, err
			}
			contractors[region] = append(contractors[region], contractor)
		}
	}
	return contractors, nil
}

func (s *SeedService) seedCitizens(ctx context.Context, passwordHash string) ([]*models.Citizen, error) {
	citizens := make([]*models.Citizen, 0, len(seedRegions))
	now := time.Now()

	for i, region := range seedRegions {
		email := fmt.Sprintf("citizen%d@urbanwatch.dev", i+1)
		user := &models.User{
			ID:           uuid.New(),
			Email:        email,
			Username:     fmt.Sprintf("citizen_%d", i+1),
			PasswordHash: passwordHash,
			Role:         models.RoleCitizen,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}

		citizen := &models.Citizen{
			ID:        uuid.New(),
			UserID:    user.ID,
			Name:      fmt.Sprintf("%s %s", pick(seedFirstNames), pick(seedLastNames)),
			Phone:     randomPhone(),
			Address:   fmt.Sprintf("%d MG Road", rand.Intn(200)+1),
			Region:    region,
			CreatedAt: now,
		}
		if err := s.citizens.Create(ctx, citizen); err != nil {
			return nil, err
		}
		citizens = append(citizens, citizen)
	}
	return citizens, nil
}

// seedComplaints creates one complaint per lifecycle stage in every region,
// with timestamps laid out in the order the stages occur.
func (s *SeedService) seedComplaints(ctx context.Context, citizens []*models.Citizen, officers map[string]*models.Officer, contractors map[string][]*models.Contractor) error {
	stages := []models.ComplaintStatus{
		models.StatusReported,
		models.StatusAssigned,
		models.StatusInProgress,
		models.StatusCompleted,
		models.StatusClosed,
	}

	for _, citizen := range citizens {
		region := citizen.Region
		officer := officers[region]

		for i, stage := range stages {
			category := seedCategories[i%len(seedCategories)]
			created := time.Now().Add(-time.Duration(rand.Intn(14)+3) * 24 * time.Hour)

			complaint := &models.Complaint{
				ID:            uuid.New(),
				TrackingToken: uuid.New(),
				CitizenID:     citizen.ID,
				Title:         pick(seedTitles[category]),
				Description:   "Reported through the demo data seeder. Please address at the earliest.",
				Category:      category,
				Region:        region,
				Status:        stage,
				CreatedAt:     created,
				UpdatedAt:     created,
			}

			step := created
			advance := func() *time.Time {
				step = step.Add(time.Duration(rand.Intn(20)+4) * time.Hour)
				t := step
				return &t
			}

			if stage != models.StatusReported {
				complaint.OfficerID = &officer.ID
				complaint.AssignedAt = advance()
			}
			if stage == models.StatusInProgress || stage == models.StatusCompleted || stage == models.StatusClosed {
				contractor := eligibleSeedContractor(contractors[region], category)
				if contractor != nil {
					complaint.ContractorID = &contractor.ID
				}
				complaint.InProgressAt = advance()
			}
			if stage == models.StatusCompleted || stage == models.StatusClosed {
				image := fmt.Sprintf("seed/%s/completed.jpg", complaint.ID)
				complaint.CompletionImage = &image
				complaint.CompletedAt = advance()
			}
			if stage == models.StatusClosed {
				complaint.ClosedAt = advance()
				complaint.UpdatedAt = *complaint.ClosedAt
			}

			if err := s.complaints.Create(ctx, complaint); err != nil {
				return err
			}
		}
	}
	return nil
}

func eligibleSeedContractor(contractors []*models.Contractor, category string) *models.Contractor {
	for _, c := range contractors {
		if c.Specialization == category {
			return c
		}
	}
	return nil
}

func pick(options []string) string {
	return options[rand.Intn(len(options))]
}

func randomPhone() string {
	return fmt.Sprintf("9%09d", rand.Intn(1000000000))
}
