package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"avtorent/config"
	"avtorent/services/storage"
	"avtorent/services/tasks"
)

// InitCleanupWorker runs the background photo-cleanup worker.
func InitCleanupWorker(photos storage.PhotoStore) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypePhotoCleanup, handlePhotoCleanup(photos))

	go monitorRedisConnection()

	go func() {
		log.Println("[CleanupWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[CleanupWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[CleanupWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handlePhotoCleanup(photos storage.PhotoStore) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.PhotoCleanupPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[CleanupHandler] Invalid payload: %v", err)
			return err
		}

		removed := 0
		for _, url := range p.URLs {
			if photos.Delete(ctx, url) {
				removed++
			}
		}
		log.Printf("[CleanupHandler] Draft %s: removed %d/%d orphaned photo(s)", p.DraftKey, removed, len(p.URLs))
		return nil
	}
}

func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[CleanupWorker] Redis connectivity check failed: %v", err)
		}
		cancel()
	}
}
