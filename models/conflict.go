// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ConflictRecord describes two diverging versions of one document. The remote
// version lives in the side-by-side artifact at ArtifactPath; the local one is
// left untouched in the document store.
type ConflictRecord struct {
	ID            string    `json:"id"`
	DocumentID    string    `json:"document_id"`
	LocalContent  string    `json:"local_content"`
	RemoteContent string    `json:"remote_content"`
	ArtifactPath  string    `json:"artifact_path"`
	OriginDevice  string    `json:"origin_device"`
	EventID       string    `json:"event_id"`
	Timestamp     time.Time `json:"timestamp"`
	Resolved      bool      `json:"resolved"`
}
