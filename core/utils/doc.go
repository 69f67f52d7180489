// Package utils provides common utility functions for the voucher extractor.
// It includes strict identifier parsing and small string helpers shared by the
// join engine and the report writers.
package utils
