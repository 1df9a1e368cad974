package emb

import (
	"reflect"
	"testing"
)

func TestMeanPoolHonoursMask(t *testing.T) {
	data := []float32{
		1, 2,
		3, 4,
		100, 100,
	}
	got, err := meanPool(data, []int{1, 1, 0}, 3, 2)
	if err != nil {
		t.Fatalf("meanPool: %v", err)
	}
	want := []float32{2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMeanPoolErrors(t *testing.T) {
	if _, err := meanPool([]float32{1, 2}, []int{0}, 1, 2); err == nil {
		t.Error("expected error for empty mask")
	}
	if _, err := meanPool([]float32{1}, []int{1}, 1, 2); err == nil {
		t.Error("expected error for short hidden state")
	}
}

func TestTruncateKeepsTrailingToken(t *testing.T) {
	tests := []struct {
		in   []int
		max  int
		want []int
	}{
		{[]int{101, 5, 6, 7, 102}, 3, []int{101, 5, 102}},
		{[]int{101, 5, 102}, 8, []int{101, 5, 102}},
		{[]int{101, 5, 102}, 0, []int{101, 5, 102}},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("truncate(%v, %d) = %v, want %v", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestEncodeRequiresInit(t *testing.T) {
	var e Encoder
	if _, err := e.Encode("hello"); err == nil {
		t.Error("expected error from uninitialized encoder")
	}
}
