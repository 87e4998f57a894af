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

package normhtml

import "testing"

func TestNormalizeHTML(t *testing.T) {
	tests := []struct {
		b    string
		want string
	}{
		{"<p>a  \t b</p>", "<p>a b</p>"},
		{"<p>a  \t\nb</p>", "<p>a b</p>"},
		{" <p>a  b</p>", "<p>a b</p>"},
		{"<p>a  b</p> ", "<p>a b</p>"},
		{"\n\t<p>\n\t\ta  b\t\t</p>\n\t", "<p>a b</p>"},
		{"<b>a  b</b> ", "<b>a b</b> "},
		{"<pre>a  \n b</pre>", "<pre>a  \n b</pre>"},
		{"<hr />", "<hr>"},
		{`<li id=fn1><a href=#fns1>x</a></li>`, `<li id="fn1"><a href="#fns1">x</a></li>`},
		{`<a rel="noreferrer noopener" HREF="foo">x</a>`, `<a href="foo" rel="noreferrer noopener">x</a>`},
		{"&forall;&#39;&gt;&lt;&quot;", "∀&apos;&gt;&lt;&quot;"},
		{"<section>\n<ol>\n<li>x</li>\n</ol>\n</section>", "<section><ol><li>x</li></ol></section>"},
	}
	for _, test := range tests {
		if got := NormalizeString(test.b); got != test.want {
			t.Errorf("NormalizeString(%q) = %q; want %q", test.b, got, test.want)
		}
	}
}
