/*
Package config loads the backing store settings from the environment.

Settings come from environment variables, optionally seeded from a .env file with
godotenv (variables already set in the environment win):

	KVBRIDGE_BACKEND     redis (default), dynamodb or memory
	REDIS_HOST           default localhost
	REDIS_PORT           default 6379
	REDIS_PASSWORD
	REDIS_DB
	REDIS_DIAL_TIMEOUT   Go duration, e.g. 2s
	AWS_ACCESS_KEY       empty uses the default AWS credential chain
	AWS_SECRET_KEY
	AWS_REGION
	AWS_DDB_TABLE        required for dynamodb
	AWS_DDB_ENDPOINT     e.g. http://localhost:8000 for DynamoDB Local

Usage:

	cfg, err := config.Load()
	if err != nil {
	    return err
	}
	store, err := cfg.OpenStore(ctx)
*/
package config
