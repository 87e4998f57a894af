// Copyright 2026 The Nuko Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package page

import (
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// dateField is the value of a DATE keyword:
// a date optionally followed by the date of the last update,
// as in "<2021-03-12 Fri>---<2021-04-01 Thu>".
type dateField struct {
	Published timestamp  `@@`
	Updated   *timestamp `( Range @@ )?`
}

type timestamp struct {
	Date    string `"<" @Date`
	Weekday string `@Weekday ">"`
}

var dateLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Date", Pattern: `\d{4}-\d{2}-\d{2}`},
	{Name: "Weekday", Pattern: `[A-Za-z]+`},
	{Name: "Range", Pattern: `---`},
	{Name: "Punct", Pattern: `[<>]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var dateParser = participle.MustBuild[dateField](
	participle.Lexer(dateLexer),
	participle.Elide("Whitespace"),
)

// parseDateField parses the value of a DATE keyword.
// updated is the zero time if the value has a single timestamp.
func parseDateField(value string) (published, updated time.Time, err error) {
	field, err := dateParser.ParseString("", value)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	published, err = field.Published.time()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if field.Updated != nil {
		updated, err = field.Updated.time()
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if updated.Before(published) {
			return time.Time{}, time.Time{}, fmt.Errorf("updated %s before published %s",
				field.Updated.Date, field.Published.Date)
		}
	}
	return published, updated, nil
}

func (ts timestamp) time() (time.Time, error) {
	t, err := time.Parse(time.DateOnly, ts.Date)
	if err != nil {
		return time.Time{}, err
	}
	day := t.Weekday().String()
	if !strings.EqualFold(ts.Weekday, day) && !strings.EqualFold(ts.Weekday, day[:3]) {
		return time.Time{}, fmt.Errorf("%s is a %s, not %s", ts.Date, day, ts.Weekday)
	}
	return t, nil
}
