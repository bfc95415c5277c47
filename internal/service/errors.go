// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	ErrVaultClosed   = errors.New("vault is closed")
	ErrVaultNotReady = errors.New("vault path is not configured")

	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrEmptyPath           = errors.New("document path is empty")
	ErrEmptyDocumentID     = errors.New("document id is empty")
	ErrDocumentExists      = errors.New("a document already exists at this path")

	// ErrPeerSyncDisabled is returned by AcceptPeer when the direct
	// transport is turned off.
	ErrPeerSyncDisabled = errors.New("peer sync is disabled")
)
