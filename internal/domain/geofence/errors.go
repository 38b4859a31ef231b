package geofence

import "errors"

// Geofence domain errors
var ErrGeofenceNotFound = errors.New("geofence not found")
