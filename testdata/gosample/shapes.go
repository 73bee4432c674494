package gosample

type Shape interface {
	Area() float64
}

type Point struct {
	X, Y float64
}

type Circle struct {
	Center Point
	radius float64
}

func (c *Circle) Area() float64 { return 3.14 * c.radius * c.radius }

type Canvas struct {
	shapes []Shape
	parent *Canvas
	first  *Circle
}

func (c *Canvas) Add(s Shape) { c.shapes = append(c.shapes, s) }
