package services

import (
	"testing"

	"github.com/emlak-portal/utils"
	"github.com/stretchr/testify/assert"
)

func TestPositions(t *testing.T) {
	tests := []struct {
		name   string
		orders []*int
		want   []int
	}{
		{"empty", nil, []int{}},
		{"request order", []*int{nil, nil, nil}, []int{0, 1, 2}},
		{"explicit order", []*int{utils.Ptr(2), utils.Ptr(0), utils.Ptr(1)}, []int{2, 0, 1}},
		{"gaps collapse", []*int{utils.Ptr(10), utils.Ptr(5)}, []int{1, 0}},
		{"index ties with explicit", []*int{nil, utils.Ptr(0)}, []int{0, 1}},
		{"duplicates keep request order", []*int{utils.Ptr(3), utils.Ptr(3), utils.Ptr(1)}, []int{1, 2, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, positions(tc.orders))
		})
	}
}
