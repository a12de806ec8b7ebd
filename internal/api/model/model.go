package model

import "time"

// Job is a tracked job application as persisted by both store drivers
type Job struct {
	ID          string    `db:"id" bson:"_id"`
	Company     string    `db:"company" bson:"company"`
	Position    string    `db:"position" bson:"position"`
	Status      string    `db:"status" bson:"status"`
	JobType     string    `db:"job_type" bson:"jobType"`
	JobLocation string    `db:"job_location" bson:"jobLocation"`
	CreatedBy   string    `db:"created_by" bson:"createdBy"`
	CreatedAt   time.Time `db:"created_at" bson:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" bson:"updatedAt"`
}

// JobUpdate carries the fields present in an update request; nil means unchanged
type JobUpdate struct {
	Company     *string
	Position    *string
	Status      *string
	JobType     *string
	JobLocation *string
}
