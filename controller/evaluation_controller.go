package controller

import (
	"errors"
	"net/http"

	"featuredflags/pkg/logger"
	"featuredflags/service"
	"featuredflags/validator"

	"github.com/labstack/echo/v4"
)

type EvaluationController struct {
	flags  service.FeaturedFlags
	logger *logger.Logger
}

func NewEvaluationController(flags service.FeaturedFlags, log *logger.Logger) *EvaluationController {
	return &EvaluationController{
		flags:  flags,
		logger: log,
	}
}

// EvaluateBody is the payload of POST /flags/:name/evaluate.
type EvaluateBody struct {
	Params map[string]string `json:"params"`
}

type EnabledResponse struct {
	Flag    string `json:"flag"`
	Enabled bool   `json:"enabled"`
}

type ValuesResponse struct {
	Flag   string            `json:"flag"`
	Values map[string]string `json:"values"`
}

type EvaluationResponse struct {
	Flag    string            `json:"flag"`
	Enabled bool              `json:"enabled"`
	Values  map[string]string `json:"values"`
}

// IsEnabled handles GET /flags/:name/enabled
// @Summary Check whether a flag is enabled
// @Description Query parameters are used as the filter; without any the flag is evaluated unfiltered.
// @Tags Evaluation
// @Produce json
// @Param name path string true "Flag name"
// @Success 200 {object} EnabledResponse
// @Failure 400 {object} validator.ValidationErrors
// @Failure 500 {object} map[string]string
// @Router /api/v1/flags/{name}/enabled [get]
func (ec *EvaluationController) IsEnabled(c echo.Context) error {
	req := validator.EvaluationRequest{Flag: c.Param("name"), Params: filterFromQuery(c)}
	if err := validator.ValidateEvaluationRequest(req); err != nil {
		return ec.handleServiceError(c, err)
	}

	enabled, err := ec.flags.IsEnabled(c.Request().Context(), req.Flag, req.Params)
	if err != nil {
		return ec.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, EnabledResponse{Flag: req.Flag, Enabled: enabled})
}

// GetEnabledValues handles GET /flags/:name/values
// @Summary Get the parameters of an enabled flag
// @Description Returns an empty object when the flag is disabled.
// @Tags Evaluation
// @Produce json
// @Param name path string true "Flag name"
// @Success 200 {object} ValuesResponse
// @Failure 400 {object} validator.ValidationErrors
// @Failure 500 {object} map[string]string
// @Router /api/v1/flags/{name}/values [get]
func (ec *EvaluationController) GetEnabledValues(c echo.Context) error {
	req := validator.EvaluationRequest{Flag: c.Param("name"), Params: filterFromQuery(c)}
	if err := validator.ValidateEvaluationRequest(req); err != nil {
		return ec.handleServiceError(c, err)
	}

	values, err := ec.flags.GetEnabledValues(c.Request().Context(), req.Flag, req.Params)
	if err != nil {
		return ec.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, ValuesResponse{Flag: req.Flag, Values: values})
}

// Evaluate handles POST /flags/:name/evaluate
// @Summary Evaluate a flag with a JSON filter
// @Tags Evaluation
// @Accept json
// @Produce json
// @Param name path string true "Flag name"
// @Param request body EvaluateBody false "Filter parameters; omit or null for no filter"
// @Success 200 {object} EvaluationResponse
// @Failure 400 {object} validator.ValidationErrors
// @Failure 500 {object} map[string]string
// @Router /api/v1/flags/{name}/evaluate [post]
func (ec *EvaluationController) Evaluate(c echo.Context) error {
	var body EvaluateBody
	if err := (&echo.DefaultBinder{}).BindBody(c, &body); err != nil {
		ec.logger.Warnw("Failed to bind evaluate request", "error", err, "flag", c.Param("name"))
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	req := validator.EvaluationRequest{Flag: c.Param("name"), Params: body.Params}
	if err := validator.ValidateEvaluationRequest(req); err != nil {
		return ec.handleServiceError(c, err)
	}

	ctx := c.Request().Context()
	enabled, err := ec.flags.IsEnabled(ctx, req.Flag, req.Params)
	if err != nil {
		return ec.handleServiceError(c, err)
	}
	values, err := ec.flags.GetEnabledValues(ctx, req.Flag, req.Params)
	if err != nil {
		return ec.handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, EvaluationResponse{Flag: req.Flag, Enabled: enabled, Values: values})
}

// handleServiceError converts service errors to appropriate HTTP responses
func (ec *EvaluationController) handleServiceError(c echo.Context, err error) error {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		ec.logger.Warnw("Validation error in API", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":             "Validation failed",
			"validation_errors": validationErr.Errors,
		})
	}

	ec.logger.Errorw("Internal error in API", "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error": "Internal server error",
	})
}

// filterFromQuery turns query parameters into a filter. No parameters means
// no filter at all, which is not the same as an empty one.
func filterFromQuery(c echo.Context) map[string]string {
	query := c.QueryParams()
	if len(query) == 0 {
		return nil
	}
	filter := make(map[string]string, len(query))
	for key, values := range query {
		if len(values) > 0 {
			filter[key] = values[0]
		}
	}
	return filter
}
