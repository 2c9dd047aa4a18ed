// Package freerooms derives per-room occupancy from cached lecture
// data: which rooms of a building are free at a given instant, and
// until when.
package freerooms

import (
	"fmt"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/snuttools/snutt-proxy/lib/lecturecache"
	"github.com/snuttools/snutt-proxy/lib/logging"
	"github.com/snuttools/snutt-proxy/lib/schedule"
	"github.com/snuttools/snutt-proxy/lib/semester"
	"github.com/snuttools/snutt-proxy/lib/snutt"
)

const endOfDay = 24 * 60

// FreeRoom is a room with no class at the queried minute. Until is
// the start of its next occupying block, or end-of-day (1440).
type FreeRoom struct {
	Room  string `json:"room"`
	Until int    `json:"until"`
}

// Computer layers a short-TTL derived cache, keyed at 5-minute
// granularity, over the lecture cache. The two caches expiring
// independently is deliberate: the derived one trades a little
// freshness for recomputation cost.
type Computer struct {
	lectures *lecturecache.LectureCache
	derived  *lru.Cache
	ttl      time.Duration
	logger   *logrus.Entry
}

type derivedEntry struct {
	data      []FreeRoom
	expiresAt time.Time
}

func New(lectures *lecturecache.LectureCache, ttl time.Duration) *Computer {
	derived, err := lru.New(1024)
	if err != nil {
		panic(err)
	}
	return &Computer{
		lectures: lectures,
		derived:  derived,
		ttl:      ttl,
		logger:   logging.GetLogger("freerooms"),
	}
}

// FreeRooms returns the free rooms of a building at the given
// canonical day (Mon=0..Sun=6) and minute-of-day. The boolean reports
// whether the result came from the derived cache.
func (c *Computer) FreeRooms(year int, semesterInput string, building string, day int, minute int) ([]FreeRoom, bool, error) {
	canon := semester.Canonicalize(semesterInput)
	slot := minute / 5 * 5
	key := fmt.Sprintf("free:%d:%s:%s:%d:%d", year, canon, building, day, slot)

	if v, ok := c.derived.Get(key); ok {
		entry := v.(derivedEntry)
		if entry.expiresAt.After(time.Now()) {
			return entry.data, true, nil
		}
	}

	lectures, _, err := c.lectures.Get(year, semesterInput)
	if err != nil {
		return nil, false, err
	}

	free := Compute(lectures, building, day, minute)
	c.derived.Add(key, derivedEntry{data: free, expiresAt: time.Now().Add(c.ttl)})
	c.logger.WithFields(logrus.Fields{"key": key, "free": len(free)}).Debug("Computed free rooms")
	return free, false, nil
}

// Compute derives the free-room list from a slim lecture set. Rooms
// belong to the universe if their token appears with the building
// prefix on any day; occupancy only considers blocks on the query
// day. A block occupies [s, e) — a class ending exactly at the query
// minute does not count as occupying it.
func Compute(lectures []snutt.SlimLecture, building string, day int, minute int) []FreeRoom {
	prefix := building + "-"

	allRooms := make(map[string]struct{})
	rangesByRoom := make(map[string][]schedule.Range)

	for _, lec := range lectures {
		for _, block := range lec.ClassTimes {
			place := block.PlaceString()
			if place == "" {
				continue
			}
			tokens := schedule.SplitPlaces(place)
			for _, token := range tokens {
				if strings.HasPrefix(token, prefix) {
					allRooms[token] = struct{}{}
				}
			}
			if !block.Day.Is(day) {
				continue
			}
			rng, ok := schedule.ToMinuteRange(block)
			if !ok {
				continue
			}
			for _, token := range tokens {
				if strings.HasPrefix(token, prefix) {
					rangesByRoom[token] = append(rangesByRoom[token], rng)
				}
			}
		}
	}

	free := make([]FreeRoom, 0, len(allRooms))
	for room := range allRooms {
		ranges := rangesByRoom[room]
		sort.Slice(ranges, func(i, j int) bool {
			if ranges[i].S != ranges[j].S {
				return ranges[i].S < ranges[j].S
			}
			return ranges[i].E < ranges[j].E
		})

		occupied := false
		for _, r := range ranges {
			if r.S <= minute && minute < r.E {
				occupied = true
				break
			}
		}
		if occupied {
			continue
		}

		until := endOfDay
		for _, r := range ranges {
			if r.S >= minute {
				until = r.S
				break
			}
		}
		free = append(free, FreeRoom{Room: room, Until: until})
	}

	sort.Slice(free, func(i, j int) bool {
		cmp := schedule.NaturalCompare(schedule.RoomLabel(free[i].Room), schedule.RoomLabel(free[j].Room))
		if cmp != 0 {
			return cmp < 0
		}
		return free[i].Room < free[j].Room
	})
	return free
}
