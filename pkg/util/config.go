package util

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ReadConfig loads config.yaml from ./data/ plus any .env file holding API
// keys. Every knob has a default so a bare checkout can run against a small
// area.
func ReadConfig() error {
	if err := godotenv.Load(); err != nil {
		// no .env file, keys must come from the process environment
	}

	viper.SetConfigName("config")
	viper.AddConfigPath("./data/")
	viper.AutomaticEnv()

	setDefaults()

	err := viper.ReadInConfig()
	if err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

func setDefaults() {
	// stage 1
	viper.SetDefault("CENTER_LAT", 10.299848) // Tisa, Cebu City
	viper.SetDefault("CENTER_LON", 123.871968)
	viper.SetDefault("RADIUS_METERS", 800)
	viper.SetDefault("OVERPASS_URL", "https://overpass-api.de/api/interpreter")
	viper.SetDefault("PBF_PATH", "") // non-empty switches stage 1 to a local extract
	viper.SetDefault("SRTM_DIR", "./data/srtm")
	viper.SetDefault("ELEVATION_URL", "") // non-empty switches to the remote lookup service
	viper.SetDefault("GRAPH_PATH", "./data/road_network.graph")

	// stage 2
	viper.SetDefault("SAMPLE_SPACING_METERS", 10.0)
	viper.SetDefault("STREETVIEW_HEADINGS", []int{0})
	viper.SetDefault("STREETVIEW_URL", "")
	viper.SetDefault("STREETVIEW_API_KEY", "")
	viper.SetDefault("IMAGE_DIR", "./data/road_images")
	viper.SetDefault("METADATA_CSV", "./data/image_metadata.csv")

	// stages 3-4
	viper.SetDefault("DETECTOR_URL", "http://localhost:8501")
	viper.SetDefault("REGRESSOR_PATH", "./data/paser_regressor.json")
	viper.SetDefault("DETECTIONS_CSV", "./data/detections.csv")
	viper.SetDefault("SCORES_CSV", "./data/proxy_paser_scores.csv")

	// stage 5
	viper.SetDefault("UPDATED_GRAPH_PATH", "./data/updated_road_network.graph")

	// optional shared infrastructure
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "paveroute.segment-scores")
	viper.SetDefault("MINIO_ENDPOINT", "")
	viper.SetDefault("MINIO_ACCESS_KEY", "")
	viper.SetDefault("MINIO_SECRET_KEY", "")
	viper.SetDefault("MINIO_BUCKET", "road-images")

	// stage 6 / API
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "1000s")
	viper.SetDefault("SNAP_RADIUS_KM", 0.4)
}
