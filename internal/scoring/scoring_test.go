package scoring

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFallback(t *testing.T) {
	Convey("Given overall precheck categories", t, func() {
		Convey("Each category maps to its fixed composite", func() {
			So(Fallback(OverallReady), ShouldEqual, 85)
			So(Fallback(OverallNeedsWork), ShouldEqual, 65)
			So(Fallback(OverallCriticalIssues), ShouldEqual, 40)
		})
		Convey("Unknown categories map to zero", func() {
			So(Fallback("meh"), ShouldEqual, 0)
			So(Fallback(""), ShouldEqual, 0)
		})
	})
}

func TestParseScores(t *testing.T) {
	Convey("Given raw rubric-scores payloads", t, func() {
		Convey("A numeric object parses", func() {
			m, ok := ParseScores([]byte(`{"clarity":80,"rigor":92.5}`))
			So(ok, ShouldBeTrue)
			So(m["clarity"], ShouldEqual, 80)
			So(m["rigor"], ShouldEqual, 92.5)
		})
		Convey("Non-numeric entries are dropped, numeric ones kept", func() {
			m, ok := ParseScores([]byte(`{"clarity":70,"note":"good","tags":[1,2]}`))
			So(ok, ShouldBeTrue)
			So(m, ShouldHaveLength, 1)
			So(m["clarity"], ShouldEqual, 70)
		})
		Convey("All-non-numeric objects are not usable", func() {
			_, ok := ParseScores([]byte(`{"note":"good"}`))
			So(ok, ShouldBeFalse)
		})
		Convey("Malformed, empty and absent payloads are not usable", func() {
			for _, raw := range [][]byte{nil, {}, []byte(`not json`), []byte(`[1,2]`)} {
				_, ok := ParseScores(raw)
				So(ok, ShouldBeFalse)
			}
		})
	})
}

func TestComposite(t *testing.T) {
	criteria := []Criterion{
		{ID: "c1", Name: "Clarity", Weight: 40},
		{ID: "c2", Name: "Rigor", Weight: 60},
	}

	Convey("Given a session rubric", t, func() {
		Convey("Scores keyed by id and by name both resolve weights", func() {
			// name match for c1, id match for c2
			got := Composite(map[string]float64{"Clarity": 80, "c2": 100}, criteria, OverallReady)
			So(got, ShouldEqual, 92) // (80*40 + 100*60) / 100
		})
		Convey("Keys matching no criterion degrade to the unweighted mean", func() {
			got := Composite(map[string]float64{"x": 50, "y": 70}, criteria, OverallReady)
			So(got, ShouldEqual, 60)
		})
		Convey("Partially matched keys normalize by the weights actually scored", func() {
			got := Composite(map[string]float64{"c1": 90}, criteria, OverallReady)
			So(got, ShouldEqual, 90)
		})
		Convey("The weighted mean rounds half away from zero", func() {
			even := []Criterion{
				{ID: "a", Name: "A", Weight: 50},
				{ID: "b", Name: "B", Weight: 50},
			}
			got := Composite(map[string]float64{"a": 85, "b": 90}, even, OverallReady)
			So(got, ShouldEqual, 88) // 87.5 rounds up
		})
		Convey("Empty scores fall back to the category score", func() {
			So(Composite(nil, criteria, OverallNeedsWork), ShouldEqual, 65)
			So(Composite(map[string]float64{}, criteria, OverallCriticalIssues), ShouldEqual, 40)
		})
	})
}

func TestCompositeRaw(t *testing.T) {
	criteria := []Criterion{{ID: "c1", Name: "Clarity", Weight: 100}}

	Convey("Given raw precheck payloads", t, func() {
		Convey("A usable payload aggregates normally", func() {
			So(CompositeRaw([]byte(`{"c1":77}`), criteria, OverallReady), ShouldEqual, 77)
		})
		Convey("A malformed payload falls back to the category score", func() {
			So(CompositeRaw([]byte(`{broken`), criteria, OverallCriticalIssues), ShouldEqual, 40)
			So(CompositeRaw(nil, criteria, OverallReady), ShouldEqual, 85)
		})
	})
}

func TestBreakdown(t *testing.T) {
	criteria := []Criterion{
		{ID: "c1", Name: "Clarity", Weight: 40},
		{ID: "c2", Name: "Rigor", Weight: 60},
		{ID: "c3", Name: "Scope", Weight: 20},
	}

	Convey("Given parsed scores", t, func() {
		rows := Breakdown(map[string]float64{"c1": 79.5, "Rigor": 88.2}, criteria)

		Convey("Rows come back in rubric order", func() {
			So(rows, ShouldHaveLength, 3)
			So(rows[0].CriterionID, ShouldEqual, "c1")
			So(rows[1].CriterionID, ShouldEqual, "c2")
			So(rows[2].CriterionID, ShouldEqual, "c3")
		})
		Convey("Scores resolve by id then by name, rounded", func() {
			So(*rows[0].Score, ShouldEqual, 80)
			So(*rows[1].Score, ShouldEqual, 88)
		})
		Convey("Ungraded criteria carry a nil score", func() {
			So(rows[2].Score, ShouldBeNil)
		})
	})

	Convey("Given no scores at all", t, func() {
		rows := Breakdown(nil, criteria)
		So(rows, ShouldHaveLength, 3)
		for _, r := range rows {
			So(r.Score, ShouldBeNil)
		}
	})
}
