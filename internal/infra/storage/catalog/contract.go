package catalog

import (
	"github.com/m04kA/shelter-booking/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
