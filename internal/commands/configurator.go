package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"vehicle-configurator/internal/catalog"
	"vehicle-configurator/internal/configurator"
	"vehicle-configurator/internal/customization"
)

// captureTimeout bounds how long a capture waits for the window to produce a frame.
const captureTimeout = 5 * time.Second

// RegisterConfigurator adds the console commands that drive s. Results are reported
// through out, which must be safe to call from another goroutine: capture completes
// asynchronously because the frame it reads is produced by the draw loop that runs the
// console.
func RegisterConfigurator(r *Registry, s *configurator.Session, captureDir string, out func(string)) {
	r.Register("set", "change options, e.g. -wheel sport -color #b91c1c", func(fs *flag.FlagSet) func() error {
		fields := map[string]*string{
			"color":     fs.String("color", "", "body color"),
			"wheel":     fs.String("wheel", "", "wheel variant"),
			"headlight": fs.String("headlight", "", "headlight variant"),
			"bumper":    fs.String("bumper", "", "bumper variant"),
			"spoiler":   fs.String("spoiler", "", "spoiler variant"),
			"decal":     fs.String("decal", "", "decal variant"),
			"ppf":       fs.String("ppf", "", "paint protection variant"),
			"brand":     fs.String("brand", "", "brand label"),
			"model":     fs.String("model", "", "model label"),
		}
		return func() error {
			var u customization.Update
			targets := map[string]**string{
				"color": &u.BodyColor, "wheel": &u.Wheel, "headlight": &u.Headlight,
				"bumper": &u.Bumper, "spoiler": &u.Spoiler, "decal": &u.Decal,
				"ppf": &u.PaintProtection, "brand": &u.Brand, "model": &u.Model,
			}
			fs.Visit(func(f *flag.Flag) {
				*targets[f.Name] = fields[f.Name]
			})
			if u.Empty() {
				return errors.New("set: no options given")
			}
			rejected := s.Apply(configurator.Input{Update: u})
			q := s.Quote()
			if rejected > 0 {
				out(fmt.Sprintf("ignored %d unknown option(s)", rejected))
			}
			out("total " + q.FormattedTotal)
			return nil
		}
	})

	r.Register("reset", "restore the default build", func(fs *flag.FlagSet) func() error {
		return func() error {
			s.Reset()
			out("reset to defaults, total " + s.Quote().FormattedTotal)
			return nil
		}
	})

	r.Register("rotate", "toggle auto-rotation, or force it with -on / -off", func(fs *flag.FlagSet) func() error {
		on := fs.Bool("on", false, "start rotating")
		off := fs.Bool("off", false, "stop rotating")
		return func() error {
			c := s.Composer()
			switch {
			case *on && *off:
				return errors.New("rotate: -on and -off are exclusive")
			case *on:
				c.SetAutoRotate(true)
			case *off:
				c.SetAutoRotate(false)
			default:
				c.Toggle()
			}
			out("rotation " + c.State().String())
			return nil
		}
	})

	r.Register("capture", "save the current frame as PNG (-dir overrides the folder)", func(fs *flag.FlagSet) func() error {
		dir := fs.String("dir", captureDir, "output folder")
		return func() error {
			go func(dir string) {
				ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
				defer cancel()
				path, err := s.Save(ctx, dir)
				if err != nil {
					out("capture failed: " + err.Error())
					return
				}
				out("saved " + path)
			}(*dir)
			return nil
		}
	})

	r.Register("price", "print the price breakdown", func(fs *flag.FlagSet) func() error {
		return func() error {
			q := s.Quote()
			for _, l := range q.Lines {
				out(fmt.Sprintf("%-16s %-20s %s", l.Category, l.Name, catalog.FormatPrice(l.Price)))
			}
			out("total " + q.FormattedTotal)
			return nil
		}
	})

	r.Register("help", "list commands", func(fs *flag.FlagSet) func() error {
		return func() error {
			for _, line := range r.Help() {
				out(line)
			}
			return nil
		}
	})
}
