package predictor

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Plugin receives engine events. The engine invokes callbacks from their own
// goroutine so a slow plugin cannot stall the tick loop; implementations must
// not assume they run on the tick goroutine.
type Plugin interface {
	OnMapChange(mapID string, classification ClassificationResult) error
	OnRaceStart(startTime int64) error
	OnCheckpoint(checkpoint, totalCheckpoints uint, raceTimeMs int64) error
	OnFinish(raceTimeMs int64) error
	OnNewLocalBest(mapID string, record SplitRecord) error
}

type multiPlugin struct {
	plugins []Plugin
}

// MultiPlugin fans each event out to every plugin.
func MultiPlugin(plugins ...Plugin) Plugin {
	return &multiPlugin{plugins: plugins}
}

func (mp *multiPlugin) OnMapChange(mapID string, classification ClassificationResult) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnMapChange(mapID, classification)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnRaceStart(startTime int64) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnRaceStart(startTime)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnCheckpoint(checkpoint, totalCheckpoints uint, raceTimeMs int64) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnCheckpoint(checkpoint, totalCheckpoints, raceTimeMs)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnFinish(raceTimeMs int64) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnFinish(raceTimeMs)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnNewLocalBest(mapID string, record SplitRecord) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnNewLocalBest(mapID, record)
		})
	}

	return g.Wait()
}

type nilPlugin struct{}

func (n nilPlugin) OnMapChange(_ string, _ ClassificationResult) error {
	return nil
}

func (n nilPlugin) OnRaceStart(_ int64) error {
	return nil
}

func (n nilPlugin) OnCheckpoint(_, _ uint, _ int64) error {
	return nil
}

func (n nilPlugin) OnFinish(_ int64) error {
	return nil
}

func (n nilPlugin) OnNewLocalBest(_ string, _ SplitRecord) error {
	return nil
}
