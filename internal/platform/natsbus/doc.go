// Package natsbus forwards story events to a NATS subject as JSON.
package natsbus
