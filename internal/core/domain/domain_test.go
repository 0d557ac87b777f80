package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/waypath/internal/core/domain"
)

func TestParseClock(t *testing.T) {
	c, err := domain.ParseClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, domain.NewClock(9, 5), c)
	assert.Equal(t, "09:05", c.String())
	assert.Equal(t, "10:35", c.Add(90).String())
	assert.Equal(t, 90, c.Add(90).Sub(c))

	for _, bad := range []string{"", "nine", "09:60", "-1:00", "48:00"} {
		_, err := domain.ParseClock(bad)
		assert.ErrorIs(t, err, domain.ErrValidation, bad)
	}
}

func TestClockAndDateJSON(t *testing.T) {
	type payload struct {
		At   domain.Clock `json:"at"`
		Date domain.Date  `json:"date"`
	}
	in := payload{At: domain.NewClock(25, 15), Date: domain.NewDate(2024, time.February, 29)}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"25:15","date":"2024-02-29"}`, string(b))

	var out payload
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in.At, out.At)
	assert.True(t, in.Date.Equal(out.Date))

	assert.Error(t, json.Unmarshal([]byte(`{"date":"29/02/2024"}`), &out))
}

func TestDate(t *testing.T) {
	d, err := domain.ParseDate("2024-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())

	loc := time.FixedZone("NPT", 5*3600+45*60)
	at := d.At(domain.NewClock(18, 30), loc)
	assert.Equal(t, 18, at.Hour())
	assert.Equal(t, loc, at.Location())

	_, err = domain.ParseDate("tomorrow")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseKinds(t *testing.T) {
	k, err := domain.ParseBlockKind(" Evening")
	require.NoError(t, err)
	assert.Equal(t, domain.BlockEvening, k)
	assert.Equal(t, 2, k.Index())

	_, err = domain.ParseBlockKind("night")
	assert.ErrorIs(t, err, domain.ErrValidation)

	var ins domain.EditInstruction
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"reduce_travel","target_day":2,"target_block":"morning"}`), &ins))
	assert.Equal(t, domain.EditReduceTravel, ins.Kind)
	require.NotNil(t, ins.TargetBlock)
	assert.Equal(t, domain.BlockMorning, *ins.TargetBlock)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"shuffle"}`), &ins))
}

func TestRecompute(t *testing.T) {
	day := domain.ItineraryDay{
		Day: 1,
		Blocks: []domain.DayBlock{
			{
				Kind: domain.BlockMorning,
				Activities: []domain.Activity{
					{Start: domain.NewClock(9, 0), End: domain.NewClock(10, 0), Duration: 60},
					{Start: domain.NewClock(10, 20), End: domain.NewClock(11, 5), Duration: 45, TravelTime: 20},
				},
			},
			{Kind: domain.BlockEvening, Start: domain.NewClock(18, 30)},
		},
	}

	day.Recompute()

	m := day.Blocks[0]
	assert.Equal(t, domain.NewClock(9, 0), m.Start)
	assert.Equal(t, domain.NewClock(11, 5), m.End)
	assert.Equal(t, 125, m.Duration)
	assert.Equal(t, 105, m.TotalActivityTime)
	assert.Equal(t, 20, m.TotalTravelTime)
	assert.Zero(t, day.Blocks[1].Duration)

	assert.Equal(t, 2, day.TotalActivities)
	assert.Equal(t, 125, day.TotalTime)

	it := domain.Itinerary{Days: []domain.ItineraryDay{day, day}}
	it.Recompute()
	assert.Equal(t, 4, it.ActivityCount)
	assert.Equal(t, 40, it.TotalTravelTime)
}

func TestCloneIsDeep(t *testing.T) {
	rating := 4.5
	block := domain.BlockMorning
	orig := &domain.Itinerary{
		City: "Kathmandu",
		Days: []domain.ItineraryDay{{
			Day: 1,
			Blocks: []domain.DayBlock{{
				Kind: domain.BlockMorning,
				Activities: []domain.Activity{{
					POI: domain.POI{ID: "p", Tags: map[string]string{"k": "v"}, Rating: &rating},
				}},
			}},
			Issues: []string{"x"},
		}},
		Metadata: domain.Metadata{LastEdit: &domain.EditTarget{Kind: domain.EditAdd, Day: 1, Block: &block}},
	}

	c := orig.Clone()
	require.Equal(t, orig, c)

	c.Days[0].Blocks[0].Activities[0].POI.Tags["k"] = "changed"
	*c.Days[0].Blocks[0].Activities[0].POI.Rating = 1
	c.Days[0].Blocks[0].Activities = append(c.Days[0].Blocks[0].Activities, domain.Activity{})
	c.Days[0].Issues[0] = "y"
	*c.Metadata.LastEdit.Block = domain.BlockEvening

	poi := orig.Days[0].Blocks[0].Activities[0].POI
	assert.Equal(t, "v", poi.Tags["k"])
	assert.Equal(t, 4.5, *poi.Rating)
	assert.Len(t, orig.Days[0].Blocks[0].Activities, 1)
	assert.Equal(t, "x", orig.Days[0].Issues[0])
	assert.Equal(t, domain.BlockMorning, *orig.Metadata.LastEdit.Block)

	var nilIt *domain.Itinerary
	assert.Nil(t, nilIt.Clone())
}
