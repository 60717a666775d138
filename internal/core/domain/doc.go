// Package domain contains the core business types for leadscout.
// It has no dependencies on adapters or collectors; everything here is
// plain data plus the error taxonomy shared by the rest of the system.
package domain
