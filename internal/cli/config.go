package cli

import "fmt"

// ConfigCmd prints the effective configuration after defaults, .env, and
// environment variables are merged.
type ConfigCmd struct{}

func (c *ConfigCmd) Run(ctx *Context) error {
	fmt.Printf("base_url:  %s\n", ctx.Config.BaseURL)
	fmt.Printf("token:     %s\n", maskToken(ctx.Config.Token))
	fmt.Printf("timeout:   %s\n", ctx.Config.Timeout)
	fmt.Printf("data_dir:  %s\n", ctx.Config.DataDir)
	fmt.Printf("debug:     %v\n", ctx.Config.Debug)
	return nil
}

func maskToken(token string) string {
	if token == "" {
		return "(no definido)"
	}
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "…" + token[len(token)-4:]
}
