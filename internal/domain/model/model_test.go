package model_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/fieldday/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseActivityType(t *testing.T) {
	Convey("Given wire activity type strings", t, func() {
		Convey("When parsing known types", func() {
			team, err := model.ParseActivityType("team")
			So(err, ShouldBeNil)
			So(team, ShouldEqual, model.TypeTeam)

			individual, err := model.ParseActivityType("individual")
			So(err, ShouldBeNil)
			So(individual, ShouldEqual, model.TypeIndividual)
		})

		Convey("When parsing an unknown type", func() {
			_, err := model.ParseActivityType("relay")
			So(err, ShouldWrap, model.ErrUnknownActivityType)
		})
	})
}

func TestActivityJSON(t *testing.T) {
	Convey("Given an individual activity", t, func() {
		a := model.Activity{
			ID:            "act1",
			CompetitionID: "c1",
			Name:          "Sprint",
			Type:          model.TypeIndividual,
			Unit:          "laps",
			Completed:     true,
			WinnerName:    "Red",
		}

		Convey("When round-tripping through JSON", func() {
			data, err := json.Marshal(a)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"type":"individual"`)

			var decoded model.Activity
			So(json.Unmarshal(data, &decoded), ShouldBeNil)
			So(decoded, ShouldResemble, a)
		})

		Convey("When decoding an invalid type string", func() {
			var decoded model.Activity
			err := json.Unmarshal([]byte(`{"id":"x","type":"relay"}`), &decoded)
			So(err, ShouldWrap, model.ErrUnknownActivityType)
		})
	})
}

func TestPointRecordRawValue(t *testing.T) {
	Convey("Given a record without a raw value", t, func() {
		r := model.PointRecord{ActivityID: "a1", TeamID: "t1", Points: 50, Kind: model.KindTeam}

		Convey("Then HasRawValue is false and JSON omits the field", func() {
			So(r.HasRawValue(), ShouldBeFalse)
			data, err := json.Marshal(r)
			So(err, ShouldBeNil)
			So(string(data), ShouldNotContainSubstring, "raw_value")
			So(string(data), ShouldContainSubstring, `"kind":"team"`)
		})
	})

	Convey("Given a record carrying a raw value", t, func() {
		r := model.PointRecord{
			ActivityID:    "a1",
			TeamID:        "t1",
			ParticipantID: "p1",
			RawValue:      model.Float64Ptr(12.5),
			Kind:          model.KindIndividual,
		}

		Convey("Then the value survives a JSON round trip", func() {
			So(r.HasRawValue(), ShouldBeTrue)
			data, err := json.Marshal(r)
			So(err, ShouldBeNil)

			var decoded model.PointRecord
			So(json.Unmarshal(data, &decoded), ShouldBeNil)
			So(decoded.HasRawValue(), ShouldBeTrue)
			So(*decoded.RawValue, ShouldEqual, 12.5)
			So(decoded.Kind, ShouldEqual, model.KindIndividual)
		})
	})
}
