package window

import (
	"fmt"
	"strconv"
	"strings"
)

// Options are the toolkit arguments understood on the command line.
type Options struct {
	Width   int
	Height  int
	X, Y    int
	HasPos  bool
	Iconic  bool
	Unknown []string
}

// ParseArgs picks the toolkit options out of args, starting from the
// given default size. Arguments it does not know are collected in
// Unknown and otherwise ignored. args should not include the program name.
func ParseArgs(args []string, width, height int) (Options, error) {
	o := Options{Width: width, Height: height}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-geometry":
			if i+1 >= len(args) {
				return o, fmt.Errorf("-geometry needs a value")
			}
			i++
			err := o.parseGeometry(args[i])
			if err != nil {
				return o, err
			}
		case "-iconic":
			o.Iconic = true
		default:
			o.Unknown = append(o.Unknown, args[i])
		}
	}
	return o, nil
}

// parseGeometry understands the X11 style WxH[+X+Y] form.
func (o *Options) parseGeometry(s string) error {
	size := s
	pos := ""
	if i := strings.IndexAny(s, "+-"); i >= 0 {
		size, pos = s[:i], s[i:]
	}

	if size != "" {
		ws, hs, ok := strings.Cut(size, "x")
		if !ok {
			return fmt.Errorf("bad geometry %q: expected WxH", s)
		}
		w, err := strconv.Atoi(ws)
		if err != nil || w < 1 {
			return fmt.Errorf("bad geometry width in %q", s)
		}
		h, err := strconv.Atoi(hs)
		if err != nil || h < 1 {
			return fmt.Errorf("bad geometry height in %q", s)
		}
		o.Width, o.Height = w, h
	}

	if pos == "" {
		return nil
	}
	var x, y int
	var xs, ys byte
	n, err := fmt.Sscanf(pos, "%c%d%c%d", &xs, &x, &ys, &y)
	if err != nil || n != 4 {
		return fmt.Errorf("bad geometry position in %q", s)
	}
	if xs == '-' {
		x = -x
	}
	if ys == '-' {
		y = -y
	}
	o.X, o.Y, o.HasPos = x, y, true
	return nil
}
