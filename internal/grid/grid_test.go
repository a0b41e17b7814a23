package grid

import "testing"

func TestHorizontalConversionScenario(t *testing.T) {
	// 1000px canvas at 2% per unit gives a 20px unit.
	c := NewConverter(Config{}, nil)
	c.SetCanvasWidth("main", 1000)

	if got := c.HorizontalUnitSize("main"); got != 20 {
		t.Fatalf("HorizontalUnitSize = %v, want 20", got)
	}
	if got := c.UnitsToPixelsX(10, "main"); got != 200 {
		t.Fatalf("UnitsToPixelsX(10) = %d, want 200", got)
	}
	if got := c.PixelsToUnitsX(200, "main"); got != 10 {
		t.Fatalf("PixelsToUnitsX(200) = %d, want 10", got)
	}
}

func TestRoundTripBothAxes(t *testing.T) {
	c := NewConverter(Config{}, nil)
	c.SetCanvasWidth("main", 1000) // exact multiple of the 20px unit

	for u := 0; u <= 50; u++ {
		if got := c.PixelsToUnitsX(c.UnitsToPixelsX(u, "main"), "main"); got != u {
			t.Fatalf("horizontal round trip: got %d, want %d", got, u)
		}
		if got := c.PixelsToUnitsY(c.UnitsToPixelsY(u)); got != u {
			t.Fatalf("vertical round trip: got %d, want %d", got, u)
		}
	}
}

func TestNearestRounding(t *testing.T) {
	c := NewConverter(Config{}, nil)
	c.SetCanvasWidth("main", 1000)

	cases := []struct {
		px   int
		want int
	}{
		{0, 0},
		{9, 0},
		{11, 1},
		{155, 8},
		{165, 8},
		{166, 8},
		{170, 9}, // 8.5 rounds away from zero
	}
	for _, tc := range cases {
		if got := c.PixelsToUnitsX(tc.px, "main"); got != tc.want {
			t.Errorf("PixelsToUnitsX(%d) = %d, want %d", tc.px, got, tc.want)
		}
	}
	if got := c.PixelsToUnitsY(77); got != 4 {
		t.Errorf("PixelsToUnitsY(77) = %d, want 4", got)
	}
}

func TestUnknownCanvasIsZero(t *testing.T) {
	c := NewConverter(Config{}, nil)

	if got := c.HorizontalUnitSize("ghost"); got != 0 {
		t.Fatalf("HorizontalUnitSize(ghost) = %v, want 0", got)
	}
	if got := c.UnitsToPixelsX(5, "ghost"); got != 0 {
		t.Fatalf("UnitsToPixelsX on unknown canvas = %d, want 0", got)
	}
	if got := c.PixelsToUnitsX(100, "ghost"); got != 0 {
		t.Fatalf("PixelsToUnitsX on unknown canvas = %d, want 0", got)
	}
}

func TestUnitClamping(t *testing.T) {
	c := NewConverter(Config{MinUnitPx: 10, MaxUnitPx: 30}, nil)

	c.SetCanvasWidth("small", 100) // 2% -> 2px, clamped up to 10
	if got := c.HorizontalUnitSize("small"); got != 10 {
		t.Fatalf("clamped-up unit = %v, want 10", got)
	}

	c.SetCanvasWidth("huge", 10000) // 2% -> 200px, clamped down to 30
	if got := c.HorizontalUnitSize("huge"); got != 30 {
		t.Fatalf("clamped-down unit = %v, want 30", got)
	}
}

func TestCacheInvalidatedOnResize(t *testing.T) {
	c := NewConverter(Config{}, nil)
	c.SetCanvasWidth("main", 1000)

	if got := c.HorizontalUnitSize("main"); got != 20 {
		t.Fatalf("unit before resize = %v, want 20", got)
	}
	c.SetCanvasWidth("main", 500)
	if got := c.HorizontalUnitSize("main"); got != 10 {
		t.Fatalf("unit after resize = %v, want 10", got)
	}
}

func TestForget(t *testing.T) {
	c := NewConverter(Config{}, nil)
	c.SetCanvasWidth("main", 1000)
	c.Forget("main")

	if got := c.HorizontalUnitSize("main"); got != 0 {
		t.Fatalf("unit after Forget = %v, want 0", got)
	}
	if _, ok := c.CanvasWidth("main"); ok {
		t.Fatal("CanvasWidth should report unknown after Forget")
	}
}
