package layout

// Direction is the flex main axis.
type Direction int

const (
	Row Direction = iota
	Column
)

// Justify controls main-axis distribution of free space.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// Align controls cross-axis placement of children within a line.
type Align int

const (
	AlignStart Align = iota
	AlignEnd
	AlignCenter
	AlignStretch
)

// PositionMode is the CSS-style position property.
type PositionMode int

const (
	PositionStatic PositionMode = iota
	PositionAbsolute
)

// BorderStyle selects the box-drawing character set the painter uses,
// per spec §4.6.
type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderSingle
	BorderDouble
	BorderRound
	BorderHeavy
)

// WrapMode mirrors text.WrapMode's three text-wrap behaviours, exposed
// on Style so host-declared `wrap` maps straight through.
type WrapMode int

const (
	WrapWrap WrapMode = iota
	WrapTruncate
	WrapNoneMode
)

// TextAlign controls horizontal placement of wrapped text lines.
type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

// Dimension is a box-model length: either undefined (content-sized) or
// a fixed number of cells. Percent sizing is not part of this spec.
type Dimension struct {
	Auto  bool
	Cells int
}

func Cells(n int) Dimension { return Dimension{Cells: n} }
func AutoDim() Dimension    { return Dimension{Auto: true} }

// Style is the declared, possibly-responsive style descriptor attached
// to a tree.Node, per spec §3.
type Style struct {
	// Box model
	Width, Height             Value[Dimension]
	MinWidth, MaxWidth         Value[Dimension]
	MinHeight, MaxHeight       Value[Dimension]
	PaddingTop, PaddingRight   Value[int]
	PaddingBottom, PaddingLeft Value[int]
	MarginTop, MarginRight     Value[int]
	MarginBottom, MarginLeft   Value[int]

	// Flex
	FlexDirection Value[Direction]
	FlexGrow      Value[float64]
	FlexShrink    Value[float64]
	FlexWrap      Value[bool]
	JustifyContent Value[Justify]
	AlignItems    Value[Align]
	Gap           Value[int]

	// Position
	Position Value[PositionMode]
	Top, Right, Bottom, Left Value[int]
	Inset    Value[int]
	ZIndex   Value[int]

	// Visual
	Bg, Color                             Value[string] // resolved in the paint package's own Color domain; carried as opaque tags here
	Bold, Dim, Italic, Underline, Strikethrough Value[bool]
	Border      Value[BorderStyle]
	BorderColor Value[string]
	Clip        Value[bool]

	// Text
	TextAlign Value[TextAlign]
	Wrap      Value[WrapMode]
}

// ResolvedStyle is Style with every responsive value collapsed to the
// concrete value in force at the current terminal column count.
type ResolvedStyle struct {
	Width, Height       Dimension
	MinWidth, MaxWidth   Dimension
	MinHeight, MaxHeight Dimension
	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft int
	MarginTop, MarginRight, MarginBottom, MarginLeft     int

	FlexDirection  Direction
	FlexGrow       float64
	FlexShrink     float64
	FlexWrap       bool
	JustifyContent Justify
	AlignItems     Align
	Gap            int

	Position                 PositionMode
	Top, Right, Bottom, Left  int
	HasTop, HasRight, HasBottom, HasLeft bool
	Inset    int
	HasInset bool
	ZIndex   int
	HasZIndex bool

	Bg, Color                             string
	Bold, Dim, Italic, Underline, Strikethrough bool
	Border      BorderStyle
	BorderColor string
	Clip        bool

	TextAlign TextAlign
	Wrap      WrapMode
}

// Resolve collapses every responsive property of s against columns.
func Resolve(s Style, columns int) ResolvedStyle {
	var r ResolvedStyle
	r.Width = s.Width.ResolveOr(columns, AutoDim())
	r.Height = s.Height.ResolveOr(columns, AutoDim())
	r.MinWidth = s.MinWidth.ResolveOr(columns, AutoDim())
	r.MaxWidth = s.MaxWidth.ResolveOr(columns, AutoDim())
	r.MinHeight = s.MinHeight.ResolveOr(columns, AutoDim())
	r.MaxHeight = s.MaxHeight.ResolveOr(columns, AutoDim())

	r.PaddingTop = s.PaddingTop.ResolveOr(columns, 0)
	r.PaddingRight = s.PaddingRight.ResolveOr(columns, 0)
	r.PaddingBottom = s.PaddingBottom.ResolveOr(columns, 0)
	r.PaddingLeft = s.PaddingLeft.ResolveOr(columns, 0)

	r.MarginTop = s.MarginTop.ResolveOr(columns, 0)
	r.MarginRight = s.MarginRight.ResolveOr(columns, 0)
	r.MarginBottom = s.MarginBottom.ResolveOr(columns, 0)
	r.MarginLeft = s.MarginLeft.ResolveOr(columns, 0)

	r.FlexDirection = s.FlexDirection.ResolveOr(columns, Row)
	r.FlexGrow = s.FlexGrow.ResolveOr(columns, 0)
	r.FlexShrink = s.FlexShrink.ResolveOr(columns, 1)
	r.FlexWrap = s.FlexWrap.ResolveOr(columns, false)
	r.JustifyContent = s.JustifyContent.ResolveOr(columns, JustifyStart)
	r.AlignItems = s.AlignItems.ResolveOr(columns, AlignStretch)
	r.Gap = s.Gap.ResolveOr(columns, 0)

	r.Position = s.Position.ResolveOr(columns, PositionStatic)
	if v, ok := s.Top.Resolve(columns); ok {
		r.Top, r.HasTop = v, true
	}
	if v, ok := s.Right.Resolve(columns); ok {
		r.Right, r.HasRight = v, true
	}
	if v, ok := s.Bottom.Resolve(columns); ok {
		r.Bottom, r.HasBottom = v, true
	}
	if v, ok := s.Left.Resolve(columns); ok {
		r.Left, r.HasLeft = v, true
	}
	if v, ok := s.Inset.Resolve(columns); ok {
		r.Inset, r.HasInset = v, true
	}
	if v, ok := s.ZIndex.Resolve(columns); ok {
		r.ZIndex, r.HasZIndex = v, true
	}

	r.Bg = s.Bg.ResolveOr(columns, "")
	r.Color = s.Color.ResolveOr(columns, "")
	r.Bold = s.Bold.ResolveOr(columns, false)
	r.Dim = s.Dim.ResolveOr(columns, false)
	r.Italic = s.Italic.ResolveOr(columns, false)
	r.Underline = s.Underline.ResolveOr(columns, false)
	r.Strikethrough = s.Strikethrough.ResolveOr(columns, false)
	r.Border = s.Border.ResolveOr(columns, BorderNone)
	r.BorderColor = s.BorderColor.ResolveOr(columns, "")
	r.Clip = s.Clip.ResolveOr(columns, false)

	r.TextAlign = s.TextAlign.ResolveOr(columns, TextAlignLeft)
	r.Wrap = s.Wrap.ResolveOr(columns, WrapWrap)

	return r
}
