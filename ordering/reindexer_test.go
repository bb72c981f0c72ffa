package ordering

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xianlu/trips/models"
)

var (
	dayTrips = New[*models.DayTrip]("day_trips", "itinerary_id", "day")
	sites    = New[*models.DayTripSite]("day_trip_sites", "day_trip_id", "site_order")
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Site{}, &models.DayTrip{}, &models.DayTripSite{}))
	return db
}

// seedDays creates n day trips at positions 0..n-1 and returns them in order.
func seedDays(t *testing.T, db *gorm.DB, itineraryID uint, n int) []*models.DayTrip {
	t.Helper()
	trips := make([]*models.DayTrip, 0, n)
	for i := 0; i < n; i++ {
		trip := &models.DayTrip{OwnerID: 1, ItineraryID: itineraryID, Day: i}
		require.NoError(t, db.Create(trip).Error)
		trips = append(trips, trip)
	}
	return trips
}

// positionsByID maps member id -> position for the group as stored.
func positionsByID(t *testing.T, db *gorm.DB, itineraryID uint) map[uint]int {
	t.Helper()
	got, err := dayTrips.Siblings(db, itineraryID)
	require.NoError(t, err)
	m := make(map[uint]int, len(got))
	for _, trip := range got {
		m[trip.ID] = trip.Day
	}
	return m
}

// requireDense asserts uniqueness and density: positions are exactly {0..n-1}.
func requireDense(t *testing.T, db *gorm.DB, itineraryID uint) {
	t.Helper()
	got, err := dayTrips.Siblings(db, itineraryID)
	require.NoError(t, err)
	for i, trip := range got {
		require.Equal(t, i, trip.Day, "positions must be dense and unique")
	}
}

func TestMoveBackward(t *testing.T) {
	db := testDB(t)
	trips := seedDays(t, db, 1, 4)

	// [0,1,2,3]: moving the member at 3 to 1 pushes former 1 and 2 up one.
	require.NoError(t, dayTrips.Move(db, trips[3], 1))

	pos := positionsByID(t, db, 1)
	require.Equal(t, 0, pos[trips[0].ID])
	require.Equal(t, 1, pos[trips[3].ID])
	require.Equal(t, 2, pos[trips[1].ID])
	require.Equal(t, 3, pos[trips[2].ID])
	requireDense(t, db, 1)
}

func TestMoveForward(t *testing.T) {
	db := testDB(t)
	trips := seedDays(t, db, 1, 3)

	// [0,1,2]: moving the member at 0 to 2 pulls former 1 and 2 down one.
	require.NoError(t, dayTrips.Move(db, trips[0], 2))

	pos := positionsByID(t, db, 1)
	require.Equal(t, 0, pos[trips[1].ID])
	require.Equal(t, 1, pos[trips[2].ID])
	require.Equal(t, 2, pos[trips[0].ID])
	requireDense(t, db, 1)
}

func TestMoveNoOpAndIdempotent(t *testing.T) {
	db := testDB(t)
	trips := seedDays(t, db, 1, 4)

	require.NoError(t, dayTrips.Move(db, trips[2], 2))
	requireDense(t, db, 1)

	require.NoError(t, dayTrips.Move(db, trips[3], 1))
	first := positionsByID(t, db, 1)

	// A repeated move to the same target must change nothing.
	require.NoError(t, dayTrips.Move(db, trips[3], 1))
	require.Equal(t, first, positionsByID(t, db, 1))
}

func TestMoveReversible(t *testing.T) {
	db := testDB(t)
	trips := seedDays(t, db, 1, 5)
	before := positionsByID(t, db, 1)

	require.NoError(t, dayTrips.Move(db, trips[1], 4))
	require.NoError(t, dayTrips.Move(db, trips[1], 1))

	require.Equal(t, before, positionsByID(t, db, 1))
}

func TestMoveOutOfRangeRejected(t *testing.T) {
	db := testDB(t)
	trips := seedDays(t, db, 1, 3)
	before := positionsByID(t, db, 1)

	require.ErrorIs(t, dayTrips.Move(db, trips[0], 3), ErrOutOfRange)
	require.ErrorIs(t, dayTrips.Move(db, trips[0], -2), ErrOutOfRange)

	// A rejected move must leave the group untouched.
	require.Equal(t, before, positionsByID(t, db, 1))
	requireDense(t, db, 1)
}

func TestRemoveClosesGap(t *testing.T) {
	db := testDB(t)
	trips := seedDays(t, db, 1, 4)

	require.NoError(t, dayTrips.Remove(db, trips[1]))

	pos := positionsByID(t, db, 1)
	require.Len(t, pos, 3)
	require.Equal(t, 0, pos[trips[0].ID])
	require.Equal(t, 1, pos[trips[2].ID])
	require.Equal(t, 2, pos[trips[3].ID])
	requireDense(t, db, 1)
}

func TestInsertAppends(t *testing.T) {
	db := testDB(t)

	first := &models.DayTrip{OwnerID: 1, ItineraryID: 1}
	require.NoError(t, dayTrips.Insert(db, first, nil))
	require.Equal(t, 0, first.Day)

	second := &models.DayTrip{OwnerID: 1, ItineraryID: 1}
	require.NoError(t, dayTrips.Insert(db, second, nil))
	require.Equal(t, 1, second.Day)
	requireDense(t, db, 1)
}

func TestInsertAtOccupiedPositionShiftsRoom(t *testing.T) {
	db := testDB(t)
	trips := seedDays(t, db, 1, 3)

	at := 1
	inserted := &models.DayTrip{OwnerID: 1, ItineraryID: 1}
	require.NoError(t, dayTrips.Insert(db, inserted, &at))

	pos := positionsByID(t, db, 1)
	require.Equal(t, 0, pos[trips[0].ID])
	require.Equal(t, 1, pos[inserted.ID])
	require.Equal(t, 2, pos[trips[1].ID])
	require.Equal(t, 3, pos[trips[2].ID])
	requireDense(t, db, 1)
}

func TestInsertPastEndAppends(t *testing.T) {
	db := testDB(t)
	seedDays(t, db, 1, 2)

	at := 9
	inserted := &models.DayTrip{OwnerID: 1, ItineraryID: 1}
	require.NoError(t, dayTrips.Insert(db, inserted, &at))
	require.Equal(t, 2, inserted.Day)
	requireDense(t, db, 1)

	neg := -1
	require.ErrorIs(t, dayTrips.Insert(db, &models.DayTrip{OwnerID: 1, ItineraryID: 1}, &neg), ErrOutOfRange)
}

func TestDisjointGroupsUntouched(t *testing.T) {
	db := testDB(t)
	trips := seedDays(t, db, 1, 3)
	other := seedDays(t, db, 2, 3)
	before := positionsByID(t, db, 2)

	require.NoError(t, dayTrips.Move(db, trips[0], 2))
	require.NoError(t, dayTrips.Remove(db, trips[1]))

	// Mutations on itinerary 1 must never leak into itinerary 2.
	require.Equal(t, before, positionsByID(t, db, 2))
	require.Equal(t, 0, positionsByID(t, db, 2)[other[0].ID])
}

func TestInvariantsAfterMixedSequence(t *testing.T) {
	db := testDB(t)
	trips := seedDays(t, db, 1, 6)

	require.NoError(t, dayTrips.Move(db, trips[5], 0))
	require.NoError(t, dayTrips.Remove(db, trips[2]))
	at := 2
	require.NoError(t, dayTrips.Insert(db, &models.DayTrip{OwnerID: 1, ItineraryID: 1}, &at))
	require.NoError(t, dayTrips.Move(db, trips[0], 3))
	require.NoError(t, dayTrips.Remove(db, trips[4]))

	requireDense(t, db, 1)
}

func TestDayTripSiteReindexing(t *testing.T) {
	db := testDB(t)

	site := &models.Site{Name: "Louvre", SiteCategory: models.SiteCategoryAttraction}
	require.NoError(t, db.Create(site).Error)

	members := make([]*models.DayTripSite, 0, 4)
	for i := 0; i < 4; i++ {
		m := &models.DayTripSite{OwnerID: 1, DayTripID: 7, SiteID: site.ID}
		require.NoError(t, sites.Insert(db, m, nil))
		members = append(members, m)
	}

	require.NoError(t, sites.Move(db, members[3], 1))
	require.NoError(t, sites.Remove(db, members[0]))

	got, err := sites.Siblings(db, 7)
	require.NoError(t, err)
	require.Len(t, got, 3)
	wantIDs := []uint{members[3].ID, members[1].ID, members[2].ID}
	for i, m := range got {
		require.Equal(t, i, m.SiteOrder)
		require.Equal(t, wantIDs[i], m.ID)
	}
}
