package form

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ramen-kiroku/ramenlog/internal/models"
)

func intPtr(v int) *int { return &v }

func TestNewCreateDefaults(t *testing.T) {
	s := NewCreate()

	require.Empty(t, s.TargetID)
	require.Equal(t, time.Now().Format("2006-01-02"), s.Date)
	require.Equal(t, 3, s.Rating)
	require.Nil(t, s.Photo())
	require.False(t, s.Submitting())
}

func TestNewEditSeedsAllFields(t *testing.T) {
	photo := "data:image/jpeg;base64,abc"
	r := models.Record{
		ID:            "rec-1",
		Date:          "2026-08-01",
		Time:          "12:30",
		Prefecture:    "東京都",
		City:          "渋谷区",
		ShopName:      "一番",
		RamenType:     "醤油",
		Menus:         []models.MenuItem{{Name: "味噌", Price: intPtr(900)}},
		BusinessHours: "11:00-21:00",
		Holidays:      "月曜",
		Links:         "https://example.com",
		Notes:         "memo",
		Rating:        5,
		WantToReturn:  true,
		PhotoDataURL:  &photo,
	}

	s := NewEdit(r)

	require.Equal(t, "rec-1", s.TargetID)
	require.Equal(t, r.Date, s.Date)
	require.Equal(t, r.Prefecture, s.Prefecture)
	require.Equal(t, r.Menus, s.Menus)
	require.Equal(t, 5, s.Rating)
	require.True(t, s.WantToReturn)
	require.NotNil(t, s.Photo())
	require.Equal(t, photo, *s.Photo())

	// seeded menus are a copy, not an alias
	s.SetMenuEntry(0, "塩", nil)
	require.Equal(t, "味噌", r.Menus[0].Name)
}

func TestNewEditOutOfRangeRating(t *testing.T) {
	s := NewEdit(models.Record{Rating: 0})
	require.Equal(t, 3, s.Rating)
}

func TestSetMenuEntryGrows(t *testing.T) {
	s := NewCreate()
	s.SetMenuEntry(2, "つけ麺", intPtr(1000))

	require.Len(t, s.Menus, 3)
	require.Equal(t, "つけ麺", s.Menus[2].Name)
	require.Empty(t, s.Menus[0].Name)

	s.SetMenuEntry(-1, "x", nil)
	require.Len(t, s.Menus, 3)
}

func TestPayloadDropsEmptyMenus(t *testing.T) {
	s := NewCreate()
	s.Prefecture = "東京都"
	s.City = "渋谷区"
	s.ShopName = "一番"
	s.SetMenuEntry(0, "", intPtr(500))
	s.SetMenuEntry(1, "味噌", intPtr(900))

	p := s.Payload()
	require.Len(t, p.Menus, 1)
	require.Equal(t, "味噌", p.Menus[0].Name)
}

func TestValidateFirstRuleWins(t *testing.T) {
	s := NewCreate()
	s.Date = ""

	err := s.Validate()
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "date", verr.Field)
	require.Equal(t, "日付を入力してください", verr.Message)

	s.Date = "2026-08-30"
	err = s.Validate()
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "prefecture", verr.Field)
}

func TestPhotoLifecycle(t *testing.T) {
	s := NewCreate()
	s.SetPhoto("data:image/jpeg;base64,xyz")
	require.NotNil(t, s.Photo())

	s.ClearPhoto()
	require.Nil(t, s.Photo())
	require.Nil(t, s.Payload().PhotoDataURL)
}

func TestSubmitGuard(t *testing.T) {
	s := NewCreate()

	require.NoError(t, s.BeginSubmit())
	require.True(t, s.Submitting())

	err := s.BeginSubmit()
	require.True(t, errors.Is(err, ErrSubmitInProgress))

	s.EndSubmit()
	require.False(t, s.Submitting())
	require.NoError(t, s.BeginSubmit())
}
