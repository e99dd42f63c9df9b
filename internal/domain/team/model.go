package team

import "fmt"

// Team is a real football club inside a season's league.
type Team struct {
	ID     string
	Season string
	Name   string
	Short  string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Season == "" {
		return fmt.Errorf("team season is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
