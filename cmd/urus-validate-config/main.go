package main

import (
	"fmt"
	"os"

	"github.com/urus/urus/lib/config"
	"github.com/urus/urus/lib/rendering/shaders"
	"github.com/urus/urus/lib/utils"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <config file>\n", os.Args[0])
		os.Exit(2)
	}
	cfg, err := config.Parse(os.Args[1])
	if err == nil {
		err = checkShaders(cfg)
	}
	if err != nil {
		fmt.Printf("Config invalid: %s\n", err)
		os.Exit(1)
	}

	fmt.Print("Config valid!\n\n")

	fmt.Print(cfg)
}

// checkShaders renders every object's templates, which catches missing
// shader files and template errors without needing a GL context.
func checkShaders(cfg *config.Config) error {
	s, err := shaders.NewShaderer(string(cfg.ShaderDir))
	if err != nil {
		return err
	}
	for _, o := range cfg.Objects {
		data := shaders.NewShaderData(utils.ColourParse(o.Colour))
		for _, name := range []string{o.VertexShader, o.FragmentShader} {
			_, err := s.GetShaderSource(name, data)
			if err != nil {
				return fmt.Errorf("object %s: %w", o.Name, err)
			}
		}
	}
	return nil
}
