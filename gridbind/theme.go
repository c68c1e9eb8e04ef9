// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gridbind

import (
	"image/color"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/magpierre/datagrid/datagrid"
)

// ColorNameStripe is the background of every other body row when the grid
// is striped. It is transparent otherwise.
const ColorNameStripe fyne.ThemeColorName = "datagridStripe"

// HeadColorName returns the theme colour used for a header tone.
func HeadColorName(tone datagrid.HeadTone) fyne.ThemeColorName {
	switch tone {
	case datagrid.HeadSuccess:
		return theme.ColorNameSuccess
	case datagrid.HeadInfo:
		return theme.ColorNamePrimary
	case datagrid.HeadWarning:
		return theme.ColorNameWarning
	case datagrid.HeadDanger:
		return theme.ColorNameError
	default:
		return theme.ColorNameSelection
	}
}

// Theme renders a grid's style tags with Fyne colours and sizes.
type Theme struct {
	tags []datagrid.StyleTag
	head datagrid.HeadTone
	base fyne.Theme
}

var _ fyne.Theme = (*Theme)(nil)

// NewTheme creates a theme for the given style flags on top of the default
// Fyne theme.
func NewTheme(style datagrid.StyleFlags) *Theme {
	return &Theme{
		tags: datagrid.StyleTags(style),
		head: style.Head,
		base: theme.DefaultTheme(),
	}
}

// Has reports whether the style carries tag.
func (m *Theme) Has(tag datagrid.StyleTag) bool {
	return slices.Contains(m.tags, tag)
}

func (m *Theme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameHeaderBackground:
		return m.Color(HeadColorName(m.head), variant)
	case ColorNameStripe:
		if !m.Has(datagrid.TagStriped) {
			return color.Transparent
		}
		if variant == theme.VariantLight {
			return color.NRGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff}
		}
		return color.NRGBA{R: 0x2d, G: 0x2d, B: 0x2d, A: 0xff}
	case theme.ColorNameHover:
		if !m.Has(datagrid.TagHover) {
			return color.Transparent
		}
	}

	if variant == theme.VariantLight {
		switch name {
		case theme.ColorNamePrimary:
			return color.NRGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xff}
		case theme.ColorNameHover:
			return color.NRGBA{R: 0x64, G: 0xb5, B: 0xf6, A: 0xff}
		case theme.ColorNameSelection:
			return color.NRGBA{R: 0xbb, G: 0xde, B: 0xfb, A: 0xff}
		case theme.ColorNameSeparator:
			return color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
		}
	} else {
		switch name {
		case theme.ColorNamePrimary:
			return color.NRGBA{R: 0x42, G: 0xa5, B: 0xf5, A: 0xff}
		case theme.ColorNameHover:
			return color.NRGBA{R: 0x64, G: 0xb5, B: 0xf6, A: 0xff}
		case theme.ColorNameSelection:
			return color.NRGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff}
		case theme.ColorNameSeparator:
			return color.NRGBA{R: 0x42, G: 0x42, B: 0x42, A: 0xff}
		}
	}
	return m.base.Color(name, variant)
}

func (m *Theme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return m.base.Icon(name)
}

func (m *Theme) Font(style fyne.TextStyle) fyne.Resource {
	return m.base.Font(style)
}

func (m *Theme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		if m.Has(datagrid.TagCondensed) {
			return 2
		}
		return 8
	case theme.SizeNameSeparatorThickness:
		if m.Has(datagrid.TagBordered) {
			return 1
		}
		return 0
	}
	return m.base.Size(name)
}
