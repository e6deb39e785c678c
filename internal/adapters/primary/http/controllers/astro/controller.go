package astroController

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/admin/astro-api/internal/domain"
	"github.com/admin/astro-api/internal/usecases/horoscope"
	"github.com/admin/astro-api/internal/usecases/zodiac"
)

type Controller struct {
	HoroscopeService *horoscope.Service
	Log              *slog.Logger
}

func New(horoscopeService *horoscope.Service, log *slog.Logger) *Controller {
	return &Controller{
		HoroscopeService: horoscopeService,
		Log:              log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/detect-sign", c.detectSign)
		api.POST("/horoscope", c.horoscope)
		api.GET("/readings", c.readings)
		api.GET("/signs", c.signs)
	}
}

func (c *Controller) detectSign(ctx *gin.Context) {
	var req DetectSignReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.badRequest(ctx, err)
		return
	}

	birthdate, err := zodiac.ParseBirthdate(req.Birthdate)
	if err != nil {
		c.badRequest(ctx, err)
		return
	}

	sign, err := zodiac.Resolve(birthdate)
	if err != nil {
		c.badRequest(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, DetectSignResp{Sign: sign})
}

func (c *Controller) horoscope(ctx *gin.Context) {
	var req HoroscopeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.badRequest(ctx, err)
		return
	}

	h, err := c.HoroscopeService.CreateHoroscope(ctx.Request.Context(), domain.HoroscopeRequest{
		Sign:  req.Sign,
		Scope: req.Scope,
	})
	if err != nil {
		c.badRequest(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, h)
}

// readings всегда 200: ошибки хранилища уже превращены сервисом в пустой список
func (c *Controller) readings(ctx *gin.Context) {
	var q ReadingsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		c.Log.Debug("invalid readings query, using defaults", "error", err)
		q = ReadingsQuery{Sign: ctx.Query("sign")}
	}

	items := c.HoroscopeService.ListReadings(ctx.Request.Context(), q.Sign, q.Limit)
	ctx.JSON(http.StatusOK, ReadingsResp{Items: items})
}

func (c *Controller) signs(ctx *gin.Context) {
	ranges := zodiac.Ranges()
	resp := make([]SignResp, 0, len(ranges))
	for _, r := range ranges {
		resp = append(resp, SignResp{
			Sign:  r.Sign,
			Start: r.Start.String(),
			End:   r.End.String(),
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"items": resp})
}

// badRequest отдаёт 400; причина берётся из InputError, иначе общий текст
func (c *Controller) badRequest(ctx *gin.Context, err error) {
	detail := "Invalid request"

	var inputErr *domain.InputError
	if errors.As(err, &inputErr) {
		detail = inputErr.Reason
	}

	c.Log.Debug("bad request", "error", err, "path", ctx.FullPath())
	ctx.JSON(http.StatusBadRequest, ErrorResp{Detail: detail})
}
