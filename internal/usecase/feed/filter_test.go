package feed

import (
	"testing"

	"github.com/lwindle/MeetMoment/internal/domain"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func sampleProfiles() []domain.Profile {
	return []domain.Profile{
		{ID: 1, Nickname: "小雨", Age: 25, City: "北京", Occupation: "设计师", Interests: []string{"摄影", "旅行"}},
		{ID: 2, Nickname: "阿杰", Age: 28, City: "上海", Occupation: "产品经理", Interests: []string{"健身"}},
		{ID: 3, Nickname: "Cara", Age: 27, City: "北京", Occupation: "工程师", Interests: []string{"咖啡"}},
		{ID: 4, Nickname: "小明", Age: 31, City: "北京", Occupation: "教师", Interests: []string{"阅读"}},
	}
}

func TestApplyFilterZeroFilterPassesThrough(t *testing.T) {
	profiles := sampleProfiles()

	got := ApplyFilter(profiles, domain.FilterState{})

	assert.Equal(t, profiles, got)
}

func TestApplyFilterCityAndAgeRange(t *testing.T) {
	filter := domain.FilterState{City: "北京", MinAge: intPtr(26), MaxAge: intPtr(30)}

	got := ApplyFilter(sampleProfiles(), filter)

	assert.Len(t, got, 1)
	assert.Equal(t, uint(3), got[0].ID)
}

func TestApplyFilterAgeBoundsInclusive(t *testing.T) {
	filter := domain.FilterState{MinAge: intPtr(25), MaxAge: intPtr(28)}

	got := ApplyFilter(sampleProfiles(), filter)

	assert.Len(t, got, 3)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, uint(2), got[1].ID)
	assert.Equal(t, uint(3), got[2].ID)
}

func TestApplyFilterSearchAcrossFields(t *testing.T) {
	profiles := sampleProfiles()

	byName := ApplyFilter(profiles, domain.FilterState{Search: "cara"})
	assert.Len(t, byName, 1)
	assert.Equal(t, uint(3), byName[0].ID)

	byOccupation := ApplyFilter(profiles, domain.FilterState{Search: "设计"})
	assert.Len(t, byOccupation, 1)
	assert.Equal(t, uint(1), byOccupation[0].ID)

	byCity := ApplyFilter(profiles, domain.FilterState{Search: "上海"})
	assert.Len(t, byCity, 1)
	assert.Equal(t, uint(2), byCity[0].ID)

	byTag := ApplyFilter(profiles, domain.FilterState{Search: "健身"})
	assert.Len(t, byTag, 1)
	assert.Equal(t, uint(2), byTag[0].ID)
}

func TestApplyFilterSearchTrimsAndIgnoresCase(t *testing.T) {
	got := ApplyFilter(sampleProfiles(), domain.FilterState{Search: "  CARA  "})

	assert.Len(t, got, 1)
	assert.Equal(t, uint(3), got[0].ID)
}

func TestApplyFilterIsIdempotent(t *testing.T) {
	filter := domain.FilterState{City: "北京"}

	once := ApplyFilter(sampleProfiles(), filter)
	twice := ApplyFilter(once, filter)

	assert.Equal(t, once, twice)
}

func TestApplyFilterPreservesOrder(t *testing.T) {
	got := ApplyFilter(sampleProfiles(), domain.FilterState{City: "北京"})

	ids := make([]uint, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []uint{1, 3, 4}, ids)
}

func TestFilterStateValidate(t *testing.T) {
	bad := domain.FilterState{MinAge: intPtr(40), MaxAge: intPtr(20)}
	assert.ErrorIs(t, bad.Validate(), domain.ErrValidation)

	good := domain.FilterState{MinAge: intPtr(20), MaxAge: intPtr(40)}
	assert.NoError(t, good.Validate())
}
