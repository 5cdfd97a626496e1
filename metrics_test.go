package dbrepo

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordQuery(t *testing.T) {
	total := queriesTotal.WithLabelValues(`test`, kindExec)
	failed := queryErrorsTotal.WithLabelValues(`test`, kindExec)

	before, beforeFailed := testutil.ToFloat64(total), testutil.ToFloat64(failed)

	recordQuery(`test`, kindExec, time.Now(), nil)
	recordQuery(`test`, kindExec, time.Now(), errors.New(`fail`))

	eq(t, before+2, testutil.ToFloat64(total))
	eq(t, beforeFailed+1, testutil.ToFloat64(failed))
}
