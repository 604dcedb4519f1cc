// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package finderuc_test

import (
	"bufio"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/momeni/custfinder/pkg/core/cerr"
	"github.com/momeni/custfinder/pkg/core/model"
	"github.com/momeni/custfinder/pkg/core/repo"
	"github.com/momeni/custfinder/pkg/core/usecase/finderuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dublinData = `{"latitude": "52.986375", "user_id": 12, "name": "Christina McArdle", "longitude": "-6.043701"}
{"latitude": "51.92893", "user_id": 1, "name": "Alice Cahill", "longitude": "-10.27699"}
{"latitude": "53.2451022", "user_id": 4, "name": "Ian Kehoe", "longitude": "-6.238335"}
{"latitude": "53.1302756", "user_id": 5, "name": "Nora Dempsey", "longitude": "-6.2397222"}
{"latitude": "54.0894797", "user_id": 8, "name": "Eoin Ahearn", "longitude": "-6.18671"}
{"latitude": "53.008769", "user_id": 11, "name": "Richard Finnegan", "longitude": "-6.1056711"}
`

type stringSource map[string]string

func (ss stringSource) Open(
	_ context.Context, path string,
) (repo.LinesCloser, error) {
	data, ok := ss[path]
	if !ok {
		return nil, errors.New("no such data source")
	}
	return nopCloser{bufio.NewScanner(strings.NewReader(data))}, nil
}

type nopCloser struct {
	*bufio.Scanner
}

func (nopCloser) Close() error {
	return nil
}

// failingLines yields its lines and then fails with err.
type failingLines struct {
	lines []string
	i     int
	err   error
}

func (fl *failingLines) Scan() bool {
	if fl.i >= len(fl.lines) {
		return false
	}
	fl.i++
	return true
}

func (fl *failingLines) Text() string {
	return fl.lines[fl.i-1]
}

func (fl *failingLines) Err() error {
	if fl.i >= len(fl.lines) {
		return fl.err
	}
	return nil
}

func dublinSettings(threshold float64) *model.Settings {
	return &model.Settings{
		CustomerDataSrc:   "customers.txt",
		Reference:         model.Coordinate{Lat: 53.339428, Lon: -6.257664}.Radians(),
		DistanceThreshold: threshold,
	}
}

func userIDs(cs []model.Customer) []int64 {
	ids := make([]int64, len(cs))
	for i, c := range cs {
		ids[i] = c.UserID
	}
	return ids
}

func newUseCase(t *testing.T, src repo.DataSource, opts ...finderuc.Option) *finderuc.UseCase {
	uc, err := finderuc.New(src, opts...)
	require.NoError(t, err, "finderuc.New")
	return uc
}

func TestFindReturnsSortedMatches(t *testing.T) {
	uc := newUseCase(t, stringSource{"customers.txt": dublinData})
	cs, err := uc.Find(context.Background(), dublinSettings(100))
	require.NoError(t, err)
	if diff := cmp.Diff([]int64{4, 5, 8, 11, 12}, userIDs(cs)); diff != "" {
		t.Errorf("unexpected user ids (-want +got):\n%s", diff)
	}
	want := model.Customer{
		UserID:    4,
		Name:      "Ian Kehoe",
		Latitude:  model.NumberOf("53.2451022"),
		Longitude: model.NumberOf("-6.238335"),
	}
	if diff := cmp.Diff(want, cs[0]); diff != "" {
		t.Errorf("retained record was changed (-want +got):\n%s", diff)
	}
}

func TestFindWithMissingDataSource(t *testing.T) {
	uc := newUseCase(t, stringSource{})
	cs, err := uc.Find(context.Background(), dublinSettings(100))
	assert.Nil(t, cs)
	assert.Equal(t, cerr.CodeError, cerr.CodeOf(err))
}

func TestFilterSkipsInvalidCoordinates(t *testing.T) {
	data := dublinData +
		`{"latitude": "north", "user_id": 2, "name": "Bad Lat", "longitude": "-6.25"}` + "\n" +
		`{"user_id": 3, "name": "No Lat", "longitude": "-6.25"}` + "\n" +
		`{"latitude": "53.3", "user_id": 6, "name": "Empty Lon", "longitude": ""}` + "\n"
	var skipped []int
	uc := newUseCase(t, stringSource{}, finderuc.WithSkipHandler(
		func(_ context.Context, line int, err *cerr.Error) {
			assert.Equal(t, cerr.CodeInvalidValue, err.Code)
			assert.Contains(t, err.Message, "latitude/longitude")
			skipped = append(skipped, line)
		},
	))
	lines := bufio.NewScanner(strings.NewReader(data))
	cs, err := uc.Filter(context.Background(), dublinSettings(100), lines)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8, 9}, skipped)
	assert.Equal(t, []int64{12, 4, 5, 8, 11}, userIDs(cs), "input order")
}

func TestFilterFailsOnMalformedRecord(t *testing.T) {
	data := dublinData + `{"latitude": "53.1", "user_id": 9` + "\n" +
		`{"latitude": "53.3", "user_id": 10, "name": "After", "longitude": "-6.25"}` + "\n"
	uc := newUseCase(t, stringSource{})
	lines := bufio.NewScanner(strings.NewReader(data))
	cs, err := uc.Filter(context.Background(), dublinSettings(100), lines)
	assert.Nil(t, cs, "no partial result")
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, cerr.CodeInvalidJSONRecord, ce.Code)
	assert.Contains(t, ce.Message, "customers.txt")
}

func TestFilterFailsOnNonObjectRecord(t *testing.T) {
	uc := newUseCase(t, stringSource{})
	lines := bufio.NewScanner(strings.NewReader("[1, 2]\n"))
	_, err := uc.Filter(context.Background(), dublinSettings(100), lines)
	assert.Equal(t, cerr.CodeInvalidJSONRecord, cerr.CodeOf(err))
}

func TestFilterSkipsEscapedNonNumericCoordinate(t *testing.T) {
	data := `{"user_id": 1, "name": "a", "latitude": "53.3\/", "longitude": "-6.25"}` + "\n" +
		`{"user_id": 2, "name": "b", "latitude": "53.3", "longitude": "-6.25"}` + "\n"
	var skipped []int
	uc := newUseCase(t, stringSource{}, finderuc.WithSkipHandler(
		func(_ context.Context, line int, err *cerr.Error) {
			assert.Equal(t, cerr.CodeInvalidValue, err.Code)
			skipped = append(skipped, line)
		},
	))
	lines := bufio.NewScanner(strings.NewReader(data))
	cs, err := uc.Filter(context.Background(), dublinSettings(100), lines)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, skipped)
	assert.Equal(t, []int64{2}, userIDs(cs))
}

func TestFilterAcceptsIntegralUserIDs(t *testing.T) {
	data := `{"user_id": 6.0, "name": "a", "latitude": "53.3", "longitude": "-6.25"}` + "\n" +
		`{"user_id": "5", "name": "b", "latitude": "53.3", "longitude": "-6.25"}` + "\n"
	uc := newUseCase(t, stringSource{"customers.txt": data})
	cs, err := uc.Find(context.Background(), dublinSettings(100))
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6}, userIDs(cs))

	lines := bufio.NewScanner(strings.NewReader(
		`{"user_id": 6.5, "name": "a", "latitude": "53.3", "longitude": "-6.25"}`,
	))
	_, err = uc.Filter(context.Background(), dublinSettings(100), lines)
	assert.Equal(t, cerr.CodeInvalidJSONRecord, cerr.CodeOf(err))
}

func TestFilterFailsOnReadError(t *testing.T) {
	uc := newUseCase(t, stringSource{})
	lines := &failingLines{
		lines: strings.Split(strings.TrimSpace(dublinData), "\n"),
		err:   errors.New("device unplugged"),
	}
	cs, err := uc.Filter(context.Background(), dublinSettings(100), lines)
	assert.Nil(t, cs)
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, cerr.CodeError, ce.Code)
	assert.Contains(t, ce.Message, "device unplugged")
}

func TestFilterIgnoresBlankLines(t *testing.T) {
	data := "\n" + strings.ReplaceAll(dublinData, "\n", "\n  \n")
	uc := newUseCase(t, stringSource{})
	lines := bufio.NewScanner(strings.NewReader(data))
	cs, err := uc.Filter(context.Background(), dublinSettings(100), lines)
	require.NoError(t, err)
	assert.Len(t, cs, 5)
}

func TestFilterOfEmptySource(t *testing.T) {
	uc := newUseCase(t, stringSource{})
	lines := bufio.NewScanner(strings.NewReader(""))
	cs, err := uc.Filter(context.Background(), dublinSettings(100), lines)
	require.NoError(t, err)
	assert.NotNil(t, cs)
	assert.Empty(t, cs)
}

func TestFilterStopsWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	uc := newUseCase(t, stringSource{})
	lines := bufio.NewScanner(strings.NewReader(dublinData))
	cs, err := uc.Filter(ctx, dublinSettings(100), lines)
	assert.Nil(t, cs)
	assert.Equal(t, cerr.CodeError, cerr.CodeOf(err))
}

func TestFilterAtOrigin(t *testing.T) {
	origin := &model.Settings{
		CustomerDataSrc:   "origin.txt",
		Reference:         model.Coordinate{}.Radians(),
		DistanceThreshold: model.EarthRadius * math.Pi / 2,
	}
	uc := newUseCase(t, stringSource{})
	atOrigin := `{"user_id": 1, "name": "Origin", "latitude": "0", "longitude": "0"}`
	cs, err := uc.Filter(
		context.Background(), origin,
		bufio.NewScanner(strings.NewReader(atOrigin)),
	)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, userIDs(cs))

	origin.DistanceThreshold = 100
	atPole := `{"user_id": 2, "name": "Pole", "latitude": "90", "longitude": "0"}`
	cs, err = uc.Filter(
		context.Background(), origin,
		bufio.NewScanner(strings.NewReader(atPole)),
	)
	require.NoError(t, err)
	assert.Empty(t, cs)
}

func TestFilterIsReentrant(t *testing.T) {
	uc := newUseCase(t, stringSource{"customers.txt": dublinData})
	s := dublinSettings(100)
	first, err := uc.Find(context.Background(), s)
	require.NoError(t, err)
	second, err := uc.Find(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, userIDs(first), userIDs(second))
}

func TestSortIsStable(t *testing.T) {
	cs := []model.Customer{
		{UserID: 3, Name: "c"},
		{UserID: 1, Name: "a1"},
		{UserID: 2, Name: "b"},
		{UserID: 1, Name: "a2"},
		{UserID: -5, Name: "neg"},
	}
	got := finderuc.Sort(context.Background(), cs)
	names := make([]string, len(got))
	for i, c := range got {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"neg", "a1", "a2", "b", "c"}, names)
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := finderuc.New(nil)
	assert.Error(t, err)
	_, err = finderuc.New(stringSource{}, finderuc.WithSkipHandler(nil))
	assert.Error(t, err)
	h := func(context.Context, int, *cerr.Error) {}
	_, err = finderuc.New(
		stringSource{},
		finderuc.WithSkipHandler(h), finderuc.WithSkipHandler(h),
	)
	assert.Error(t, err)
}
