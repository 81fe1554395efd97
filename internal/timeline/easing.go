package timeline

import "math"

// Curve maps normalised progress in [0, 1] to normalised value. The zero
// value is the identity.
type Curve struct {
	fn          func(float64) float64
	left, right float64
	clipped     bool
}

func (c Curve) IsIdentity() bool {
	return c.fn == nil
}

// Clip restricts the curve to [left, right] of its domain, renormalised so
// the result still runs from 0 to 1.
func (c Curve) Clip(left, right float64) Curve {
	if c.fn == nil || (left == 0 && right == 1) || left >= right {
		return c
	}
	c.left, c.right, c.clipped = math.Max(0, left), math.Min(1, right), true
	return c
}

func (c Curve) Eval(p float64) float64 {
	if c.fn == nil {
		return p
	}
	if !c.clipped {
		return c.fn(p)
	}
	fl, fr := c.fn(c.left), c.fn(c.right)
	if fl == fr {
		return p
	}
	return (c.fn(c.left+(c.right-c.left)*p) - fl) / (fr - fl)
}

// Easing returns the curve for a numbered easing. Unknown numbers are linear.
func Easing(n int) Curve {
	if n <= 1 || n >= len(easings) {
		return Curve{}
	}
	return Curve{fn: easings[n]}
}

// Bezier returns a CSS-style cubic-bezier curve through (0,0), (x1,y1),
// (x2,y2) and (1,1).
func Bezier(x1, y1, x2, y2 float64) Curve {
	if x1 == y1 && x2 == y2 {
		return Curve{}
	}
	return Curve{fn: func(x float64) float64 {
		return cubicBezier(x1, y1, x2, y2, x)
	}}
}

func cubicBezier(x1, y1, x2, y2, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	bez := func(a, b, t float64) float64 {
		u := 1 - t
		return 3*u*u*t*a + 3*u*t*t*b + t*t*t
	}
	dbez := func(a, b, t float64) float64 {
		u := 1 - t
		return 3*u*u*a + 6*u*t*(b-a) + 3*t*t*(1-b)
	}
	t := x
	for i := 0; i < 8; i++ {
		d := dbez(x1, x2, t)
		if math.Abs(d) < 1e-7 {
			break
		}
		t -= (bez(x1, x2, t) - x) / d
	}
	if t < 0 || t > 1 || math.Abs(bez(x1, x2, t)-x) > 1e-7 {
		lo, hi := 0.0, 1.0
		t = x
		for i := 0; i < 64; i++ {
			v := bez(x1, x2, t)
			if math.Abs(v-x) < 1e-9 {
				break
			}
			if v < x {
				lo = t
			} else {
				hi = t
			}
			t = (lo + hi) / 2
		}
	}
	return bez(y1, y2, t)
}

const (
	backC1    = 1.70158
	backC2    = backC1 * 1.525
	backC3    = backC1 + 1
	elasticC4 = 2 * math.Pi / 3
	elasticC5 = 2 * math.Pi / 4.5
	bounceN1  = 7.5625
	bounceD1  = 2.75
)

func outBounce(x float64) float64 {
	switch {
	case x < 1/bounceD1:
		return bounceN1 * x * x
	case x < 2/bounceD1:
		x -= 1.5 / bounceD1
		return bounceN1*x*x + 0.75
	case x < 2.5/bounceD1:
		x -= 2.25 / bounceD1
		return bounceN1*x*x + 0.9375
	}
	x -= 2.625 / bounceD1
	return bounceN1*x*x + 0.984375
}

// Index 0 is unused; 1 is linear.
var easings = [...]func(float64) float64{
	nil,
	func(x float64) float64 { return x },
	func(x float64) float64 { return math.Sin(x * math.Pi / 2) },
	func(x float64) float64 { return 1 - math.Cos(x*math.Pi/2) },
	func(x float64) float64 { return 1 - (1-x)*(1-x) },
	func(x float64) float64 { return x * x },
	func(x float64) float64 { return -(math.Cos(math.Pi*x) - 1) / 2 },
	func(x float64) float64 {
		if x < 0.5 {
			return 2 * x * x
		}
		return 1 - math.Pow(-2*x+2, 2)/2
	},
	func(x float64) float64 { return 1 - math.Pow(1-x, 3) },
	func(x float64) float64 { return x * x * x },
	func(x float64) float64 { return 1 - math.Pow(1-x, 4) },
	func(x float64) float64 { return x * x * x * x },
	func(x float64) float64 {
		if x < 0.5 {
			return 4 * x * x * x
		}
		return 1 - math.Pow(-2*x+2, 3)/2
	},
	func(x float64) float64 {
		if x < 0.5 {
			return 8 * x * x * x * x
		}
		return 1 - math.Pow(-2*x+2, 4)/2
	},
	func(x float64) float64 { return 1 - math.Pow(1-x, 5) },
	func(x float64) float64 { return x * x * x * x * x },
	func(x float64) float64 {
		if x == 1 {
			return 1
		}
		return 1 - math.Pow(2, -10*x)
	},
	func(x float64) float64 {
		if x == 0 {
			return 0
		}
		return math.Pow(2, 10*x-10)
	},
	func(x float64) float64 { return math.Sqrt(1 - math.Pow(x-1, 2)) },
	func(x float64) float64 { return 1 - math.Sqrt(1-x*x) },
	func(x float64) float64 { return 1 + backC3*math.Pow(x-1, 3) + backC1*math.Pow(x-1, 2) },
	func(x float64) float64 { return backC3*x*x*x - backC1*x*x },
	func(x float64) float64 {
		if x < 0.5 {
			return (1 - math.Sqrt(1-math.Pow(2*x, 2))) / 2
		}
		return (math.Sqrt(1-math.Pow(-2*x+2, 2)) + 1) / 2
	},
	func(x float64) float64 {
		if x < 0.5 {
			return (math.Pow(2*x, 2) * ((backC2+1)*2*x - backC2)) / 2
		}
		return (math.Pow(2*x-2, 2)*((backC2+1)*(x*2-2)+backC2) + 2) / 2
	},
	func(x float64) float64 {
		if x == 0 || x == 1 {
			return x
		}
		return math.Pow(2, -10*x)*math.Sin((x*10-0.75)*elasticC4) + 1
	},
	func(x float64) float64 {
		if x == 0 || x == 1 {
			return x
		}
		return -math.Pow(2, 10*x-10) * math.Sin((x*10-10.75)*elasticC4)
	},
	outBounce,
	func(x float64) float64 { return 1 - outBounce(1-x) },
	func(x float64) float64 {
		if x < 0.5 {
			return (1 - outBounce(1-2*x)) / 2
		}
		return (1 + outBounce(2*x-1)) / 2
	},
	func(x float64) float64 {
		if x == 0 || x == 1 {
			return x
		}
		if x < 0.5 {
			return -(math.Pow(2, 20*x-10) * math.Sin((20*x-11.125)*elasticC5)) / 2
		}
		return (math.Pow(2, -20*x+10)*math.Sin((20*x-11.125)*elasticC5))/2 + 1
	},
}
