// Package bridge holds the task lifecycle types shared by the upload, status,
// and download paths: the job request submitted upstream, the status document
// returned by the remote task service, and the error taxonomy the HTTP layer
// maps onto responses.
package bridge
