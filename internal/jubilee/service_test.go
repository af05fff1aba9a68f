// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package jubilee_test

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicaa/alumni-api/internal/jubilee"
	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/pkg/pointer"
)

// # Fakes

type fakeRepository struct {
	participants map[string]*jubilee.Participant
	order        []string

	// codeChecks records every secret code probed for uniqueness; the first
	// firstCodesTaken probes report a collision.
	codeChecks      []string
	firstCodesTaken int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{participants: map[string]*jubilee.Participant{}}
}

func (store *fakeRepository) Create(_ context.Context, participant *jubilee.Participant) error {
	clone := *participant
	store.participants[participant.ID] = &clone
	store.order = append(store.order, participant.ID)
	return nil
}

func (store *fakeRepository) List(_ context.Context) ([]jubilee.Participant, error) {
	participants := make([]jubilee.Participant, 0, len(store.order))
	for index := len(store.order) - 1; index >= 0; index-- {
		participants = append(participants, *store.participants[store.order[index]])
	}
	return participants, nil
}

func (store *fakeRepository) FindByID(_ context.Context, id string) (*jubilee.Participant, error) {
	participant, ok := store.participants[id]
	if !ok {
		return nil, apperr.NotFound("Participant")
	}
	clone := *participant
	return &clone, nil
}

func (store *fakeRepository) SecretCodeExists(_ context.Context, code string) (bool, error) {
	store.codeChecks = append(store.codeChecks, code)
	if len(store.codeChecks) <= store.firstCodesTaken {
		return true, nil
	}
	for _, participant := range store.participants {
		if participant.SecretCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (store *fakeRepository) ContactInUse(_ context.Context, email, phone, excludeID string) (bool, error) {
	for _, participant := range store.participants {
		if participant.ID == excludeID || participant.ParticipantCategory.IsDependent() {
			continue
		}
		if (email != "" && participant.Email == email) || (phone != "" && participant.PhoneNumber == phone) {
			return true, nil
		}
	}
	return false, nil
}

func (store *fakeRepository) ListByBatchAndGroup(_ context.Context, batch int, group jubilee.Group) ([]jubilee.Participant, error) {
	matches := []jubilee.Participant{}
	for _, id := range store.order {
		participant := store.participants[id]
		if participant.HSCPassingYear%100 == batch%100 && participant.Group == group {
			matches = append(matches, *participant)
		}
	}
	sort.Slice(matches, func(left, right int) bool {
		return matches[left].FullName < matches[right].FullName
	})
	return matches, nil
}

func (store *fakeRepository) Update(_ context.Context, participant *jubilee.Participant) error {
	if _, ok := store.participants[participant.ID]; !ok {
		return apperr.NotFound("Participant")
	}
	clone := *participant
	store.participants[participant.ID] = &clone
	return nil
}

func (store *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := store.participants[id]; !ok {
		return apperr.NotFound("Participant")
	}
	delete(store.participants, id)
	for index, stored := range store.order {
		if stored == id {
			store.order = append(store.order[:index], store.order[index+1:]...)
			break
		}
	}
	return nil
}

// # Helpers

func newTestService(store *fakeRepository) *jubilee.Service {
	return jubilee.NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func alumniInput(name, phone, email string) *jubilee.Participant {
	return &jubilee.Participant{
		ParticipantCategory: jubilee.CategoryAlumni,
		FullName:            name,
		PhoneNumber:         phone,
		Email:               email,
		HSCPassingYear:      1999,
		Group:               jubilee.GroupScience,
		Gender:              jubilee.GenderMale,
		BloodGroup:          jubilee.BloodOPositive,
		PaymentType:         jubilee.PaymentBkash,
		Amount:              1500,
		FatherName:          "Abdul Karim",
		FatherPhoneNumber:   "01811111111",
		FatherOccupation:    "Teacher",
		MotherName:          "Rahima Begum",
		MotherPhoneNumber:   "01822222222",
		MotherOccupation:    "Homemaker",
	}
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, status, appError.HTTPStatus)
}

// # Tests

func TestRegister_SecretCodeFormat(t *testing.T) {
	store := newFakeRepository()
	service := newTestService(store)

	participant, err := service.Register(context.Background(),
		alumniInput("Rahim Uddin", "01712345678", "rahim@nicaa.org"))
	require.NoError(t, err)

	// batch 99 from HSC year 1999, group code 01 for Science
	assert.Regexp(t, regexp.MustCompile(`^99-01-\d{2}-\d{2}-\d{6}$`), participant.SecretCode)
	assert.NotEmpty(t, participant.ID)
	assert.Equal(t, jubilee.AmountRegistration, participant.AmountType)
}

func TestRegister_SecretCodeRegeneratedOnCollision(t *testing.T) {
	store := newFakeRepository()
	store.firstCodesTaken = 2
	service := newTestService(store)

	participant, err := service.Register(context.Background(),
		alumniInput("Rahim Uddin", "01712345678", "rahim@nicaa.org"))
	require.NoError(t, err)

	assert.Len(t, store.codeChecks, 3)
	assert.Equal(t, store.codeChecks[2], participant.SecretCode)
}

func TestRegister_CategoryValidation(t *testing.T) {
	service := newTestService(newFakeRepository())

	t.Run("alumni missing parental details", func(t *testing.T) {
		input := alumniInput("Rahim Uddin", "01712345678", "rahim@nicaa.org")
		input.FatherName = ""
		_, err := service.Register(context.Background(), input)
		requireStatus(t, err, 400)
	})

	t.Run("guest missing guest name", func(t *testing.T) {
		_, err := service.Register(context.Background(), &jubilee.Participant{
			ParticipantCategory:  jubilee.CategoryGuest,
			MainParticipantBatch: 1999,
			MainParticipantGroup: jubilee.GroupScience,
			GuestMobileNumber:    "01933333333",
			PaymentType:          jubilee.PaymentCash,
		})
		requireStatus(t, err, 400)
	})

	t.Run("guest with anchor only", func(t *testing.T) {
		participant, err := service.Register(context.Background(), &jubilee.Participant{
			ParticipantCategory:  jubilee.CategoryGuest,
			MainParticipantBatch: 1999,
			MainParticipantGroup: jubilee.GroupHumanities,
			GuestName:            "Salma Akter",
			GuestMobileNumber:    "01933333333",
			PaymentType:          jubilee.PaymentCash,
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(participant.SecretCode, "99-03-"))
	})

	t.Run("baby requires main participant id", func(t *testing.T) {
		_, err := service.Register(context.Background(), &jubilee.Participant{
			ParticipantCategory:  jubilee.CategoryBaby,
			MainParticipantBatch: 1999,
			MainParticipantGroup: jubilee.GroupScience,
			BabyName:             "Arif",
			BabyPhone:            "01944444444",
			PaymentType:          jubilee.PaymentCash,
		})
		requireStatus(t, err, 400)
	})
}

func TestRegister_MainParticipantLookup(t *testing.T) {
	store := newFakeRepository()
	service := newTestService(store)

	main, err := service.Register(context.Background(),
		alumniInput("Rahim Uddin", "01712345678", "rahim@nicaa.org"))
	require.NoError(t, err)

	baby, err := service.Register(context.Background(), &jubilee.Participant{
		ParticipantCategory:  jubilee.CategoryBaby,
		MainParticipantBatch: 1999,
		MainParticipantGroup: jubilee.GroupScience,
		MainParticipantID:    main.ID,
		BabyName:             "Arif",
		BabyPhone:            "01944444444",
		PaymentType:          jubilee.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, "Rahim Uddin", baby.MainParticipantName)

	_, err = service.Register(context.Background(), &jubilee.Participant{
		ParticipantCategory:  jubilee.CategoryBaby,
		MainParticipantBatch: 1999,
		MainParticipantGroup: jubilee.GroupScience,
		MainParticipantID:    "missing-id",
		BabyName:             "Arif",
		BabyPhone:            "01944444444",
		PaymentType:          jubilee.PaymentCash,
	})
	requireStatus(t, err, 400)
	assert.Equal(t, "Main participant not found", apperr.As(err).Message)
}

func TestRegister_DuplicateContactGuard(t *testing.T) {
	store := newFakeRepository()
	service := newTestService(store)

	_, err := service.Register(context.Background(),
		alumniInput("Rahim Uddin", "01712345678", "rahim@nicaa.org"))
	require.NoError(t, err)

	_, err = service.Register(context.Background(),
		alumniInput("Other Person", "01712345678", "other@nicaa.org"))
	requireStatus(t, err, 400)
	assert.Equal(t, "Participant with this email or phone number already registered", apperr.As(err).Message)

	// guests sit outside the duplicate guard
	_, err = service.Register(context.Background(), &jubilee.Participant{
		ParticipantCategory:  jubilee.CategoryGuest,
		MainParticipantBatch: 1999,
		MainParticipantGroup: jubilee.GroupScience,
		GuestName:            "Salma Akter",
		GuestMobileNumber:    "01712345678",
		PaymentType:          jubilee.PaymentCash,
	})
	assert.NoError(t, err)
}

func TestGetByBatchAndGroup(t *testing.T) {
	store := newFakeRepository()
	service := newTestService(store)

	_, err := service.Register(context.Background(),
		alumniInput("Zahir Raihan", "01712345671", "zahir@nicaa.org"))
	require.NoError(t, err)
	_, err = service.Register(context.Background(),
		alumniInput("Abul Hasan", "01712345672", "abul@nicaa.org"))
	require.NoError(t, err)

	business := alumniInput("Kamal Hossain", "01712345673", "kamal@nicaa.org")
	business.Group = jubilee.GroupBusinessStudies
	_, err = service.Register(context.Background(), business)
	require.NoError(t, err)

	listing, err := service.GetByBatchAndGroup(context.Background(), 99, jubilee.GroupScience)
	require.NoError(t, err)
	assert.Equal(t, 2, listing.Total)
	assert.Equal(t, "Abul Hasan", listing.Participants[0].FullName)
	assert.Equal(t, "Zahir Raihan", listing.Participants[1].FullName)

	_, err = service.GetByBatchAndGroup(context.Background(), 75, jubilee.GroupScience)
	requireStatus(t, err, 404)
}

func TestUpdate_DuplicateGuardExcludesSelf(t *testing.T) {
	store := newFakeRepository()
	service := newTestService(store)

	first, err := service.Register(context.Background(),
		alumniInput("Rahim Uddin", "01712345678", "rahim@nicaa.org"))
	require.NoError(t, err)
	_, err = service.Register(context.Background(),
		alumniInput("Karim Uddin", "01712345679", "karim@nicaa.org"))
	require.NoError(t, err)

	_, err = service.Update(context.Background(), first.ID,
		jubilee.UpdateInput{Email: pointer.To("rahim@nicaa.org")})
	assert.NoError(t, err)

	_, err = service.Update(context.Background(), first.ID,
		jubilee.UpdateInput{Email: pointer.To("karim@nicaa.org")})
	requireStatus(t, err, 400)

	updated, err := service.Update(context.Background(), first.ID,
		jubilee.UpdateInput{Comments: pointer.To("paid at the venue")})
	require.NoError(t, err)
	assert.Equal(t, "paid at the venue", updated.Comments)
	assert.Equal(t, first.SecretCode, updated.SecretCode)
}

func TestGetStatistics(t *testing.T) {
	store := newFakeRepository()
	service := newTestService(store)

	_, err := service.Register(context.Background(),
		alumniInput("Rahim Uddin", "01712345678", "rahim@nicaa.org"))
	require.NoError(t, err)

	donor := alumniInput("Karim Uddin", "01712345679", "karim@nicaa.org")
	donor.AmountType = jubilee.AmountDonation
	donor.Amount = 5000
	donor.PaymentType = jubilee.PaymentBankAccount
	_, err = service.Register(context.Background(), donor)
	require.NoError(t, err)

	_, err = service.Register(context.Background(), &jubilee.Participant{
		ParticipantCategory:  jubilee.CategoryGuest,
		MainParticipantBatch: 1999,
		MainParticipantGroup: jubilee.GroupScience,
		GuestName:            "Salma Akter",
		GuestMobileNumber:    "01933333333",
		PaymentType:          jubilee.PaymentCash,
		Amount:               500,
	})
	require.NoError(t, err)

	statistics, err := service.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, statistics.TotalParticipants)
	assert.Equal(t, 2, statistics.ByCategory[jubilee.CategoryAlumni])
	assert.Equal(t, 1, statistics.ByCategory[jubilee.CategoryGuest])
	assert.Equal(t, 2, statistics.ByGroup[jubilee.GroupScience])
	assert.Equal(t, 1, statistics.ByPaymentType[jubilee.PaymentCash])
	assert.Equal(t, float64(7000), statistics.TotalAmount)
	assert.Equal(t, float64(5000), statistics.DonationAmount)
	assert.Equal(t, float64(2000), statistics.RegistrationAmount)
}

func TestImportCSV(t *testing.T) {
	store := newFakeRepository()
	service := newTestService(store)

	csvContent := strings.Join([]string{
		"participantCategory,fullName,phoneNumber,email,hscPassingYear,group,gender,bloodGroup,paymentType,amount,fatherName,fatherPhoneNumber,fatherOccupation,motherName,motherPhoneNumber,motherOccupation",
		"Alumni,Rahim Uddin,01712345678,rahim@nicaa.org,1999,Science,Male,O+,Bkash,1500,Abdul Karim,01811111111,Teacher,Rahima Begum,01822222222,Homemaker",
		"Alumni,Broken Row,01712345679,broken@nicaa.org,1999,Science,Male,O+,Bkash,1500,,01811111111,Teacher,Rahima Begum,01822222222,Homemaker",
		"Student,Karim Uddin,01712345680,karim@nicaa.org,2024,Humanities,Male,A+,Nagad,500,Abdul Karim,01811111111,Teacher,Rahima Begum,01822222222,Homemaker",
	}, "\n")

	result, err := service.ImportCSV(context.Background(), strings.NewReader(csvContent))
	require.NoError(t, err)

	assert.Equal(t, 2, result.CreatedCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Message, "fatherName")

	participants, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, participants, 2)
}

func TestImportCSV_RejectsMissingHeader(t *testing.T) {
	service := newTestService(newFakeRepository())

	_, err := service.ImportCSV(context.Background(), strings.NewReader("fullName,email\nRahim,r@nicaa.org"))
	requireStatus(t, err, 400)
}

func TestDelete(t *testing.T) {
	store := newFakeRepository()
	service := newTestService(store)

	participant, err := service.Register(context.Background(),
		alumniInput("Rahim Uddin", "01712345678", "rahim@nicaa.org"))
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), participant.ID))
	requireStatus(t, service.Delete(context.Background(), participant.ID), 404)
}
